package service

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"khawam-pro/models/khawam"
)

const (
	sheetNameOrders = "Orders"

	colOrderNumber  = "Order #"
	colOrderDate    = "Date"
	colCustomer     = "Customer"
	colPhone        = "Phone"
	colDelivery     = "Delivery"
	colStatus       = "Status"
	colServices     = "Services"
	colTotal        = "Total (SYP)"
	colRatingHeader = "Rating"
)

var orderExportColumns = []string{
	colOrderNumber, colOrderDate, colCustomer, colPhone,
	colDelivery, colStatus, colServices, colTotal, colRatingHeader,
}

// BuildOrdersWorkbook renders orders into an Excel workbook for the
// dashboard export button and the sales report job.
func BuildOrdersWorkbook(orders []khawam.Order) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetNameOrders)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, header := range orderExportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetNameOrders, cell, header); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheetNameOrders, cell, cell, headerStyle)
	}

	for rowIdx, order := range orders {
		services := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			services = append(services, fmt.Sprintf("%s x%d", item.ServiceName, item.Quantity))
		}

		rating := ""
		if order.Rating != nil {
			rating = fmt.Sprintf("%d/5", *order.Rating)
		}

		values := []interface{}{
			order.OrderNumber,
			order.CreatedAt.String(),
			order.CustomerName,
			order.CustomerPhone,
			string(order.DeliveryType),
			string(order.Status),
			strings.Join(services, ", "),
			order.TotalAmount,
			rating,
		}

		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetNameOrders, cell, value); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(sheetNameOrders, "A", "A", 18)
	_ = f.SetColWidth(sheetNameOrders, "G", "G", 40)

	return f, nil
}
