package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
)

func TestCoerceQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"valid integer", "25", "25", nil},
		{"valid decimal", "12.5", "12.5", nil},
		{"empty coerces to zero", "", "0", nil},
		{"whitespace coerces to zero", "   ", "0", nil},
		{"garbage coerces to zero", "not-a-number", "0", nil},
		{"mixed garbage coerces to zero", "12abc", "0", nil},
		{"negative rejected", "-5", "0", domain.ErrInvalidQuantity},
		{"zero allowed", "0", "0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.CoerceQuantity(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("CoerceQuantity(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := domain.ValidatePagination(0, -3)
	if limit != domain.DefaultPageSize || offset != 0 {
		t.Errorf("got (%d, %d), want (%d, 0)", limit, offset, domain.DefaultPageSize)
	}

	limit, _ = domain.ValidatePagination(100000, 0)
	if limit != domain.MaxPageSize {
		t.Errorf("limit = %d, want %d", limit, domain.MaxPageSize)
	}
}

func TestObligationValidate(t *testing.T) {
	base := func() *domain.Obligation {
		return &domain.Obligation{
			Kind:           domain.KindDeposit,
			CounterpartyID: "client-1",
			ProductID:      "cafe-oro",
			CommittedQty:   decimal.NewFromInt(50),
			UnitPrice:      decimal.NewFromInt(10),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Obligation)
		wantErr error
	}{
		{"valid", func(o *domain.Obligation) {}, nil},
		{"missing counterparty", func(o *domain.Obligation) { o.CounterpartyID = "" }, domain.ErrMissingCounterparty},
		{"missing product", func(o *domain.Obligation) { o.ProductID = "" }, domain.ErrMissingProduct},
		{"bad kind", func(o *domain.Obligation) { o.Kind = "prestamo" }, domain.ErrInvalidKind},
		{"negative qty", func(o *domain.Obligation) { o.CommittedQty = decimal.NewFromInt(-1) }, domain.ErrInvalidQuantity},
		{"negative price", func(o *domain.Obligation) { o.UnitPrice = decimal.NewFromInt(-1) }, domain.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base()
			tt.mutate(o)
			if err := o.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRolePermissions(t *testing.T) {
	if !domain.RoleOperarios.CanWrite() {
		t.Error("OPERARIOS should be able to write")
	}
	if domain.RoleOperarios.CanVoid() {
		t.Error("OPERARIOS should not be able to void")
	}
	if domain.RoleAuditores.CanWrite() {
		t.Error("AUDITORES should be read-only")
	}
	if !domain.RoleGerencia.CanVoid() {
		t.Error("GERENCIA should be able to void")
	}
	if !domain.Role("ADMIN").IsValid() {
		t.Error("ADMIN should be valid")
	}
	if domain.Role("admin").IsValid() {
		t.Error("roles are case-sensitive upper-case names")
	}
}
