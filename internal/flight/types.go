package flight

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Itinerary is everything extracted from one confirmation email.
type Itinerary struct {
	Flights    []Flight    `json:"flight_details"`
	Passengers []Passenger `json:"passenger_details"`
	Purchase   Purchase    `json:"purchase_summary"`
}

// Flight is a single leg. Datetimes look like "Wed, Nov 08, 2023 11:10 AM"
// and cities like "San Francisco, CA, US".
type Flight struct {
	FlightNumber         string `json:"flight_number"`
	Class                string `json:"class"`
	DepartureDatetime    string `json:"departure_datetime"`
	ArrivalDatetime      string `json:"arrival_datetime"`
	DepartureCity        string `json:"departure_city"`
	DepartureAirportCode string `json:"departure_city_airport_code,omitempty"`
	ArrivalCity          string `json:"arrival_city"`
	ArrivalAirportCode   string `json:"arrival_city_airport_code,omitempty"`
	OperatedBy           string `json:"operated_by,omitempty"`
}

// Passenger is one traveller on the booking.
type Passenger struct {
	Name          string `json:"name"`
	ETicketNumber string `json:"eticket_number"`
	FrequentFlyer string `json:"frequent_flyer"`
	Seats         string `json:"seats"`
}

// Purchase summarizes what was paid.
type Purchase struct {
	MethodOfPayment   string `json:"method_of_payment,omitempty"`
	DateOfPurchase    string `json:"date_of_purchase,omitempty"`
	Airfare           string `json:"airfare,omitempty"`
	TaxesAndFees      string `json:"taxes_and_fees,omitempty"`
	TotalPerPassenger string `json:"total_per_passenger,omitempty"`
	Total             string `json:"total,omitempty"`
}

// Empty reports whether nothing was extracted.
func (it Itinerary) Empty() bool {
	return len(it.Flights) == 0 && len(it.Passengers) == 0 && it.Purchase == Purchase{}
}

// MarshalIndent renders the itinerary the way it is printed and cached.
func (it Itinerary) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(it, "", "    ")
}

// ParseItinerary decodes a provider answer. Blank answers and JSON null
// decode to an empty Itinerary.
func ParseItinerary(raw string) (Itinerary, error) {
	var it Itinerary
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return it, nil
	}
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return Itinerary{}, fmt.Errorf("failed to decode flight details: %w", err)
	}
	return it, nil
}
