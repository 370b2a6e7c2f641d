package models

// PricingCategory says how a venue-specific service price is applied.
type PricingCategory string

const (
	PricingHourly PricingCategory = "hourly" // price charged per booked hour
	PricingFixed  PricingCategory = "fixed"  // flat price per booking
)

// VenueService is one service a venue offers, with venue-specific pricing.
// Services never carry a global price; every offering is priced per venue.
type VenueService struct {
	ServiceID string          `bson:"service_id" json:"service_id"`
	Name      string          `bson:"name" json:"name"`
	Price     Money           `bson:"price" json:"price"`
	Category  PricingCategory `bson:"category" json:"category"`
}

// Venue is the catalog entry the booking core reads. The core never mutates
// venues; catalog CRUD lives with the owner-facing surface.
type Venue struct {
	ID               string         `bson:"id" json:"id"`
	OwnerID          string         `bson:"owner_id" json:"owner_id"`
	Name             string         `bson:"name" json:"name"`
	BasePricePerHour Money          `bson:"base_price_per_hour" json:"base_price_per_hour"`
	Capacity         int            `bson:"capacity" json:"capacity"`
	Services         []VenueService `bson:"services" json:"services"`
}

// FindService returns the venue's offering for the given service id.
func (v *Venue) FindService(serviceID string) (VenueService, bool) {
	for _, s := range v.Services {
		if s.ServiceID == serviceID {
			return s, true
		}
	}
	return VenueService{}, false
}
