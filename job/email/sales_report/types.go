package sales_report

// ServiceSales aggregates one service line in the daily report.
type ServiceSales struct {
	ServiceName string
	Orders      int
	Quantity    int
	Revenue     float64
}

// StatusLine counts orders per status for the report footer.
type StatusLine struct {
	Status string
	Count  int
}

// ReportTemplateData feeds the HTML email template.
type ReportTemplateData struct {
	ReportDate    string
	TotalOrders   int
	TotalRevenue  float64
	AverageOrder  float64
	Services      []ServiceSales
	StatusSummary []StatusLine
}
