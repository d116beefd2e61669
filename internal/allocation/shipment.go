package allocation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/db/models"
	"github.com/mantoshmedhansh-dot/lsp-backend/pkg/enums"
)

// ShipmentRequest carries the shipment attributes rule conditions can test.
// It is an immutable input; the engine never mutates or persists it.
type ShipmentRequest struct {
	ID              uuid.UUID
	Type            enums.ShipmentType
	WeightKg        float64
	DeclaredValue   decimal.Decimal
	OriginZone      string
	DestinationZone string
	IsCOD           bool
}

// ShipmentRequestFromModel projects a persisted shipment into the engine input.
func ShipmentRequestFromModel(shipment models.Shipment) ShipmentRequest {
	return ShipmentRequest{
		ID:              shipment.ID,
		Type:            shipment.Type,
		WeightKg:        shipment.WeightKg,
		DeclaredValue:   shipment.DeclaredValue,
		OriginZone:      shipment.OriginZone,
		DestinationZone: shipment.DestinationZone,
		IsCOD:           shipment.IsCOD,
	}
}
