package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/types"
)

// Order is the operational projection the predictors read. The platform's
// order-management surface owns writes; this subsystem only queries.
type Order struct {
	ID                    uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyID             uuid.UUID         `gorm:"column:company_id;type:uuid;not null"`
	CustomerID            uuid.UUID         `gorm:"column:customer_id;type:uuid;not null"`
	LocationID            uuid.UUID         `gorm:"column:location_id;type:uuid;not null"`
	Status                enums.OrderStatus `gorm:"column:status;type:text;not null;default:'created'"`
	PaymentMode           enums.PaymentMode `gorm:"column:payment_mode;type:text;not null;default:'prepaid'"`
	TotalAmount           decimal.Decimal   `gorm:"column:total_amount;type:numeric(14,2);not null"`
	PromisedDate          time.Time         `gorm:"column:promised_date;not null"`
	ShippingAddress       types.Address     `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingPostalCode     *string           `gorm:"column:billing_postal_code"`
	AssignedTransporterID *uuid.UUID        `gorm:"column:assigned_transporter_id;type:uuid"`
	Items                 []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveredAt           *time.Time        `gorm:"column:delivered_at"`
	CancelledAt           *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt             time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one SKU line on an order.
type OrderItem struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID  uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	SKUID    string    `gorm:"column:sku_id;not null"`
	Quantity int       `gorm:"column:quantity;not null"`
}
