// Package sales_report generates the daily sales email: an HTML summary of
// the day's orders plus an Excel workbook written next to the binary.
package sales_report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/jinzhu/now"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
	"khawam-pro/internal/service"
)

//go:embed template.html
var templateFS embed.FS

// DateFormat is the date stamp used in subjects and filenames.
const DateFormat = "2006-01-02"

// SalesReportSender fetches the day's orders, renders the summary email and
// sends it over SMTP.
type SalesReportSender struct {
	db           *gorm.DB
	smtpHost     string
	smtpPort     int
	smtpUser     string
	smtpPassword string
	fromEmail    string
	toEmails     []string
	logger       *zap.Logger
}

// NewSalesReportSender creates a sender.
func NewSalesReportSender(db *gorm.DB, smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string, toEmails []string) *SalesReportSender {
	logger, err := zap.NewProduction()
	if err != nil {
		logger, _ = zap.NewDevelopment()
	}
	return &SalesReportSender{
		db:           db,
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    fromEmail,
		toEmails:     toEmails,
		logger:       logger,
	}
}

// Run builds and sends today's report. It returns the path of the Excel
// workbook it wrote, so the caller can sync it to S3.
func (s *SalesReportSender) Run(ctx context.Context) (string, error) {
	s.logger.Info("starting daily sales report")

	orders, err := s.fetchTodaysOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching orders: %w", err)
	}
	if len(orders) == 0 {
		s.logger.Info("no orders today, sending empty report")
	}

	data := s.prepareTemplateData(orders)

	workbookPath, err := s.writeWorkbook(orders, data.ReportDate)
	if err != nil {
		return "", fmt.Errorf("writing workbook: %w", err)
	}

	body, err := s.generateEmailContent(data)
	if err != nil {
		return "", fmt.Errorf("rendering email: %w", err)
	}

	subject := fmt.Sprintf("Khawam Pro daily sales report - %s", data.ReportDate)
	if err := s.sendEmail(subject, body); err != nil {
		return "", fmt.Errorf("sending email: %w", err)
	}

	s.logger.Info("daily sales report sent",
		zap.Int("orders", data.TotalOrders),
		zap.String("workbook", workbookPath))
	return workbookPath, nil
}

func (s *SalesReportSender) fetchTodaysOrders(ctx context.Context) ([]khawam.Order, error) {
	var orders []khawam.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("created_at >= ?", now.BeginningOfDay()).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

func (s *SalesReportSender) prepareTemplateData(orders []khawam.Order) ReportTemplateData {
	data := ReportTemplateData{
		ReportDate:  time.Now().Format(DateFormat),
		TotalOrders: len(orders),
	}

	serviceMap := make(map[string]*ServiceSales)
	statusMap := make(map[string]int)
	for _, order := range orders {
		data.TotalRevenue += order.TotalAmount
		statusMap[string(order.Status)]++
		for _, item := range order.Items {
			line, ok := serviceMap[item.ServiceName]
			if !ok {
				line = &ServiceSales{ServiceName: item.ServiceName}
				serviceMap[item.ServiceName] = line
			}
			line.Orders++
			line.Quantity += item.Quantity
			line.Revenue += item.TotalPrice
		}
	}
	if data.TotalOrders > 0 {
		data.AverageOrder = data.TotalRevenue / float64(data.TotalOrders)
	}

	for _, line := range serviceMap {
		data.Services = append(data.Services, *line)
	}
	sort.Slice(data.Services, func(i, j int) bool {
		return data.Services[i].Revenue > data.Services[j].Revenue
	})

	for status, count := range statusMap {
		data.StatusSummary = append(data.StatusSummary, StatusLine{Status: status, Count: count})
	}
	sort.Slice(data.StatusSummary, func(i, j int) bool {
		return data.StatusSummary[i].Status < data.StatusSummary[j].Status
	})

	return data
}

func (s *SalesReportSender) writeWorkbook(orders []khawam.Order, date string) (string, error) {
	workbook, err := service.BuildOrdersWorkbook(orders)
	if err != nil {
		return "", err
	}
	defer workbook.Close()

	if err := os.MkdirAll("reports", 0o755); err != nil {
		return "", err
	}
	path := filepath.Join("reports", fmt.Sprintf("sales-report-%s.xlsx", date))
	if err := workbook.SaveAs(path); err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err == nil {
		s.logger.Info("workbook written", zap.String("path", path), zap.Int64("bytes", info.Size()))
	}
	return path, nil
}

func (s *SalesReportSender) generateEmailContent(data ReportTemplateData) (string, error) {
	tmpl, err := template.New("salesReport").Funcs(sprig.HtmlFuncMap()).ParseFS(templateFS, "template.html")
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "template.html", data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return buf.String(), nil
}

func (s *SalesReportSender) sendEmail(subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)
	addr := fmt.Sprintf("%s:%d", s.smtpHost, s.smtpPort)

	msg := "From: " + s.fromEmail + "\r\n" +
		"To: " + s.toEmails[0]
	for i := 1; i < len(s.toEmails); i++ {
		msg += "," + s.toEmails[i]
	}
	msg += "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg += body

	s.logger.Info("sending email",
		zap.Strings("to", s.toEmails),
		zap.String("subject", subject))
	if err := smtp.SendMail(addr, auth, s.fromEmail, s.toEmails, []byte(msg)); err != nil {
		return fmt.Errorf("smtp.SendMail failed: %w", err)
	}
	return nil
}
