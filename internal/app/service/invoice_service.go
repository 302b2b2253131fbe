package service

import (
	"time"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
)

// InvoiceLine is one priced row on the invoice, rendered from the order
// item snapshot so old invoices survive catalog edits.
type InvoiceLine struct {
	Description    string  `json:"description"`
	OptionName     string  `json:"option_name,omitempty"`
	Purity         string  `json:"purity,omitempty"`
	GrossWeight    float64 `json:"gross_weight,omitempty"`
	NetWeight      float64 `json:"net_weight,omitempty"`
	LessWeight     float64 `json:"less_weight,omitempty"`
	Rate           float64 `json:"rate,omitempty"`
	LabourCharge   float64 `json:"labour_charge,omitempty"`
	WastagePercent float64 `json:"wastage_percent,omitempty"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	LineTotal      float64 `json:"line_total"`
}

// InvoiceData is everything a frontend needs to render a printable
// invoice.
type InvoiceData struct {
	StoreName    string    `json:"store_name"`
	StoreGSTIN   string    `json:"store_gstin,omitempty"`
	StoreAddress string    `json:"store_address,omitempty"`
	OrderNumber  string    `json:"order_number"`
	OrderDate    time.Time `json:"order_date"`

	BillToName    string `json:"bill_to_name"`
	BillToEmail   string `json:"bill_to_email"`
	BillToPhone   string `json:"bill_to_phone"`
	BillToAddress string `json:"bill_to_address"`
	BillToPAN     string `json:"bill_to_pan,omitempty"`

	Lines          []InvoiceLine `json:"lines"`
	Subtotal       float64       `json:"subtotal"`
	DiscountCode   string        `json:"discount_code,omitempty"`
	DiscountAmount float64       `json:"discount_amount,omitempty"`
	CODCharge      float64       `json:"cod_charge,omitempty"`
	TotalAmount    float64       `json:"total_amount"`
	PaymentMethod  string        `json:"payment_method"`
	PaymentStatus  string        `json:"payment_status"`
}

type InvoiceService interface {
	BuildInvoice(orderID uint) (*InvoiceData, error)
}

type invoiceService struct {
	orderService OrderService
	store        config.StoreConfig
}

func NewInvoiceService(orderService OrderService, store config.StoreConfig) InvoiceService {
	return &invoiceService{orderService: orderService, store: store}
}

func (s *invoiceService) BuildInvoice(orderID uint) (*InvoiceData, error) {
	order, err := s.orderService.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	return buildInvoiceData(order, s.store), nil
}

func buildInvoiceData(order *model.Order, store config.StoreConfig) *InvoiceData {
	lines := make([]InvoiceLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, InvoiceLine{
			Description:    item.ProductName,
			OptionName:     item.OptionName,
			Purity:         item.Purity,
			GrossWeight:    item.GrossWeight,
			NetWeight:      item.NetWeight,
			LessWeight:     item.LessWeight,
			Rate:           item.Rate,
			LabourCharge:   item.LabourCharge,
			WastagePercent: item.WastagePercent,
			Quantity:       item.Quantity,
			UnitPrice:      item.Price,
			LineTotal:      item.LineTotal(),
		})
	}

	address := order.Address
	if order.City != "" {
		address += ", " + order.City
	}
	if order.State != "" {
		address += ", " + order.State
	}
	if order.Pincode != "" {
		address += " - " + order.Pincode
	}

	return &InvoiceData{
		StoreName:      store.Name,
		StoreGSTIN:     store.GSTIN,
		StoreAddress:   store.Address,
		OrderNumber:    order.OrderNumber,
		OrderDate:      order.CreatedAt,
		BillToName:     order.ShippingName,
		BillToEmail:    order.ShippingEmail,
		BillToPhone:    order.ShippingPhone,
		BillToAddress:  address,
		BillToPAN:      order.PAN,
		Lines:          lines,
		Subtotal:       order.Subtotal,
		DiscountCode:   order.DiscountCode,
		DiscountAmount: order.DiscountAmount,
		CODCharge:      order.CODCharge,
		TotalAmount:    order.TotalAmount,
		PaymentMethod:  string(order.PaymentMethod),
		PaymentStatus:  string(order.PaymentStatus),
	}
}
