package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Ensure MockGeocoder implements Geocoder
var _ Geocoder = (*MockGeocoder)(nil)

// MockGeocoder is a mock implementation for testing and extends `mock.Mock`
type MockGeocoder struct {
	mock.Mock
}

// Geocode (Mocked)
func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	args := m.Called(ctx, address)
	loc, _ := args.Get(0).(*Location)
	return loc, args.Error(1)
}
