package service

import (
	"bytes"
	"fmt"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ReportService produces admin exports.
type ReportService interface {
	ExportOrdersXLSX(filter repository.OrderFilter) ([]byte, error)
}

type reportService struct {
	orderRepo repository.OrderRepository
}

func NewReportService(orderRepo repository.OrderRepository) ReportService {
	return &reportService{orderRepo: orderRepo}
}

var orderExportHeader = []string{
	"Order Number", "Date", "Customer", "Email", "Phone",
	"City", "State", "Pincode", "Items", "Subtotal",
	"Discount", "COD Charge", "Total", "Payment Method",
	"Payment Status", "Order Status", "Courier", "Tracking Number",
}

// ExportOrdersXLSX renders the filtered orders as a spreadsheet, one row
// per order with an item summary column.
func (s *reportService) ExportOrdersXLSX(filter repository.OrderFilter) ([]byte, error) {
	filter.Limit = 0
	filter.Offset = 0
	orders, _, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range orderExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, order := range orders {
		row := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			order.ShippingName,
			order.ShippingEmail,
			order.ShippingPhone,
			order.City,
			order.State,
			order.Pincode,
			itemSummary(order.Items),
			order.Subtotal,
			order.DiscountAmount,
			order.CODCharge,
			order.TotalAmount,
			string(order.PaymentMethod),
			string(order.PaymentStatus),
			string(order.Status),
			order.CourierName,
			order.TrackingNumber,
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	logger.Info("Order export generated", logger.Fields{
		"order_count": len(orders),
		"bytes":       buf.Len(),
	})
	return buf.Bytes(), nil
}

func itemSummary(items []model.OrderItem) string {
	summary := ""
	for i, item := range items {
		if i > 0 {
			summary += "; "
		}
		summary += fmt.Sprintf("%s x%d", item.ProductName, item.Quantity)
		if item.OptionName != "" {
			summary += fmt.Sprintf(" (%s)", item.OptionName)
		}
	}
	return summary
}
