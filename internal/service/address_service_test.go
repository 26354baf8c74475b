package service

import (
	"errors"
	"testing"

	"github.com/nilecart/internal/repository"
)

func TestAddressCreateDefaults(t *testing.T) {
	f := newServiceFixture(t)
	addresses := NewAddressService(repository.NewShippingAddressRepository(f.db), f.policy)
	user := f.createUser(t, "book@example.com")

	input := AddressInput{FirstName: "Mona", LastName: "Adel", AddressLine1: "12 Nile St", City: "Cairo"}
	first, err := addresses.Create(user.ID, input)
	if err != nil {
		t.Fatalf("create first address failed: %v", err)
	}
	if !first.IsDefault || first.Country != "EG" {
		t.Fatalf("first address should be default in EG, got %+v", first)
	}

	input.City = "Luxor"
	input.IsDefault = true
	second, err := addresses.Create(user.ID, input)
	if err != nil {
		t.Fatalf("create second address failed: %v", err)
	}
	list, err := addresses.List(user.ID)
	if err != nil {
		t.Fatalf("list addresses failed: %v", err)
	}
	defaults := 0
	for _, item := range list {
		if item.IsDefault {
			defaults++
			if item.ID != second.ID {
				t.Fatalf("newest explicit default should win, got %d", item.ID)
			}
		}
	}
	if len(list) != 2 || defaults != 1 {
		t.Fatalf("want 2 addresses with one default, got %d/%d", len(list), defaults)
	}
}

func TestAddressCreateValidation(t *testing.T) {
	f := newServiceFixture(t)
	addresses := NewAddressService(repository.NewShippingAddressRepository(f.db), f.policy)
	user := f.createUser(t, "invalid-book@example.com")

	_, err := addresses.Create(user.ID, AddressInput{FirstName: "Mona", LastName: "Adel", City: "Cairo"})
	var validation *ValidationError
	if !errors.As(err, &validation) || validation.Field != "address_line1" || validation.Code != ReasonAddressInvalid {
		t.Fatalf("want address_line1 validation error, got %v", err)
	}
	if _, err := addresses.Create(0, AddressInput{}); !errors.Is(err, ErrIdentityInvalid) {
		t.Fatalf("anonymous caller want identity error, got %v", err)
	}
}
