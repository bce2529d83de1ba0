package user

import (
	"errors"
	"strings"
	"testing"

	"github.com/osanchezal/sgc-backend/internal/domain"
)

func TestCreateUserInput_Validate(t *testing.T) {
	t.Parallel()

	valid := CreateUserInput{
		Email:    "ana@sgc.local",
		Name:     "Ana",
		Role:     domain.RoleUser,
		Password: "clave-segura",
	}

	tests := []struct {
		name    string
		mutate  func(i *CreateUserInput)
		wantErr bool
		field   string
	}{
		{name: "valid", mutate: func(*CreateUserInput) {}},
		{name: "empty email", mutate: func(i *CreateUserInput) { i.Email = "" }, wantErr: true, field: "email"},
		{name: "no at sign", mutate: func(i *CreateUserInput) { i.Email = "ana.sgc.local" }, wantErr: true, field: "email"},
		{name: "empty name", mutate: func(i *CreateUserInput) { i.Name = "" }, wantErr: true, field: "name"},
		{name: "bad role", mutate: func(i *CreateUserInput) { i.Role = "root" }, wantErr: true, field: "role"},
		{name: "short password", mutate: func(i *CreateUserInput) { i.Password = "corta" }, wantErr: true, field: "password"},
		{name: "password over bcrypt limit", mutate: func(i *CreateUserInput) { i.Password = strings.Repeat("x", 73) }, wantErr: true, field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			input := valid
			tt.mutate(&input)
			err := input.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got %+v", tt.field, verr.Errors)
			}
		})
	}
}

func TestLoginInput_Validate(t *testing.T) {
	t.Parallel()

	if err := (LoginInput{Email: "a@b.c", Password: "x"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (LoginInput{}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
