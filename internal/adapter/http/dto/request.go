package dto

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// Validate runs go-playground/validator tags against a request struct.
func Validate(req any) error {
	return validate.Struct(req)
}

// CreateObligationRequest represents a request to register an obligation.
// Quantity and price are pointers so an absent field fails `required`
// instead of silently registering a zero-quantity obligation.
type CreateObligationRequest struct {
	Kind           string           `json:"kind"            validate:"required,oneof=contract deposit sale"`
	CounterpartyID string           `json:"counterparty_id" validate:"required"`
	ProductID      string           `json:"product_id"      validate:"required"`
	CommittedQty   *decimal.Decimal `json:"committed_qty"   validate:"required,min=0"`
	UnitPrice      *decimal.Decimal `json:"unit_price"      validate:"required,min=0"`
	Label          string           `json:"label"           validate:"max=255"`
}

// ToUseCaseInput converts to use case input. Call Validate first; the
// pointers are guaranteed non-nil only after validation.
func (r *CreateObligationRequest) ToUseCaseInput() usecase.CreateObligationInput {
	return usecase.CreateObligationInput{
		Kind:           domain.ObligationKind(r.Kind),
		CounterpartyID: r.CounterpartyID,
		ProductID:      r.ProductID,
		CommittedQty:   *r.CommittedQty,
		UnitPrice:      *r.UnitPrice,
		Label:          r.Label,
	}
}

// UpdateObligationStatusRequest represents a back-office status correction.
type UpdateObligationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RecordMovementRequest represents a request to record a delivery movement.
// Quantity arrives as a string because upstream spreadsheet exports send
// blanks and garbage where numbers should be; those coerce to zero instead
// of failing the whole import.
type RecordMovementRequest struct {
	Quantity string `json:"quantity"`
	Category string `json:"category" validate:"max=64"`
}

// ToUseCaseInput converts to use case input, coercing the raw quantity.
func (r *RecordMovementRequest) ToUseCaseInput(obligationID string) (usecase.RecordMovementInput, error) {
	qty, err := domain.CoerceQuantity(r.Quantity)
	if err != nil {
		return usecase.RecordMovementInput{}, err
	}

	return usecase.RecordMovementInput{
		ObligationID: obligationID,
		Quantity:     qty,
		Category:     r.Category,
	}, nil
}

// MovementItem represents a single movement inside a liquidation request.
// Unlike ad-hoc movement recording, a liquidation settles an obligation, so
// every member quantity must be present.
type MovementItem struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"required,min=0"`
	Category string           `json:"category" validate:"max=64"`
}

// CreateLiquidationRequest represents a request to settle an obligation with
// a batch of movements.
type CreateLiquidationRequest struct {
	Note      string         `json:"note"      validate:"max=255"`
	Movements []MovementItem `json:"movements" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input. Call Validate first.
func (r *CreateLiquidationRequest) ToUseCaseInput(obligationID string) usecase.CreateLiquidationInput {
	specs := make([]usecase.MovementSpec, len(r.Movements))
	for i, m := range r.Movements {
		specs[i] = usecase.MovementSpec{
			Quantity: *m.Quantity,
			Category: m.Category,
		}
	}

	return usecase.CreateLiquidationInput{
		ObligationID: obligationID,
		Note:         r.Note,
		Movements:    specs,
	}
}

// ImportMovementRow is one row of a legacy ledger export. Quantity stays a
// raw string here: the old spreadsheets send blanks and garbage where
// numbers should be, and those coerce to zero instead of failing the whole
// import. StatusTag carries the free-text void marker ("ANULADO" in any
// casing) the old system used.
type ImportMovementRow struct {
	Quantity  string `json:"quantity"`
	Category  string `json:"category"   validate:"max=64"`
	StatusTag string `json:"status_tag" validate:"max=64"`
}

// ImportMovementsRequest represents a bulk import of legacy ledger rows.
type ImportMovementsRequest struct {
	Rows []ImportMovementRow `json:"rows" validate:"required,min=1,dive"`
}

// ToUseCaseInput converts to use case input, coercing each raw quantity and
// classifying each legacy status tag.
func (r *ImportMovementsRequest) ToUseCaseInput(obligationID string) (usecase.ImportMovementsInput, error) {
	rows := make([]usecase.ImportMovementRow, len(r.Rows))
	for i, row := range r.Rows {
		qty, err := domain.CoerceQuantity(row.Quantity)
		if err != nil {
			return usecase.ImportMovementsInput{}, err
		}
		rows[i] = usecase.ImportMovementRow{
			Quantity: qty,
			Category: row.Category,
			Status:   domain.StatusFromLegacyTag(row.StatusTag),
		}
	}

	return usecase.ImportMovementsInput{
		ObligationID: obligationID,
		Rows:         rows,
	}, nil
}
