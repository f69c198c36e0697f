// Package content serves the e-waste domain catalog: device classification
// advice, recycling drop-off locations, and education guides. The data set
// is static and embedded in the binary; location phone numbers are
// normalized for display at load time.
package content

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// defaultPhoneRegion is the region used to parse location contact numbers
// that carry no country prefix.
const defaultPhoneRegion = "IN"

// Classification is the advice returned for a device type and condition.
type Classification struct {
	Message         string `json:"message"`
	Recommendation  string `json:"recommendation"`
	DeviceType      string `json:"deviceType"`
	DeviceCondition string `json:"deviceCondition"`
}

// Location is a recycling drop-off point.
type Location struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Contact       string   `json:"contact"`
	Hours         string   `json:"hours"`
	AcceptedTypes []string `json:"acceptedTypes"`
}

// Guide is an education article about e-waste handling.
type Guide struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FullContent string `json:"full_content"`
}

// Classify builds the advice for a device. The recommendation is picked by
// condition first: devices that still work should be donated or repaired
// before they hit a recycler. For non-working devices the type decides.
func Classify(deviceType, deviceCondition string) Classification {
	return Classification{
		Message:         fmt.Sprintf("You classified a %s %s.", deviceCondition, deviceType),
		Recommendation:  recommendation(deviceType, deviceCondition),
		DeviceType:      deviceType,
		DeviceCondition: deviceCondition,
	}
}

func recommendation(deviceType, deviceCondition string) string {
	switch deviceCondition {
	case "Working", "Partially Working":
		return fmt.Sprintf("Consider donating or repairing your %s before recycling.", deviceType)
	}

	switch deviceType {
	case "Smartphone", "Laptop", "Tablet":
		return fmt.Sprintf("This %s likely contains valuable materials. Find a specialized e-waste recycler.", deviceType)
	case "Battery":
		return "Batteries should always be recycled separately. Do NOT dispose of them in regular trash."
	case "TV", "Monitor":
		return fmt.Sprintf("Large electronics like %s often require special pick-up or drop-off.", deviceType)
	}

	return "Please consult local recycling guidelines."
}

// Locations returns the recycling centers accepting the given device type.
// An empty filter or "All" returns every location.
func Locations(deviceTypeFilter string) []Location {
	if deviceTypeFilter == "" || deviceTypeFilter == "All" {
		return locations
	}

	filtered := make([]Location, 0, len(locations))
	for _, loc := range locations {
		for _, accepted := range loc.AcceptedTypes {
			if accepted == deviceTypeFilter {
				filtered = append(filtered, loc)
				break
			}
		}
	}
	return filtered
}

// Guides returns every education guide.
func Guides() []Guide {
	return guides
}

// normalizeContact formats a raw contact number for display. Entries that
// are not phone numbers, like "N/A", pass through untouched.
func normalizeContact(raw string) string {
	if raw == "" || raw == "N/A" {
		return raw
	}
	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}

func init() {
	for i := range locations {
		locations[i].Contact = normalizeContact(locations[i].Contact)
	}
}

var locations = []Location{
	{
		ID:      1,
		Name:    "Green Earth Recycling Center",
		Address: "123 E-Waste Lane, Hyderabad, Telangana",
		Contact: "040-12345678",
		Hours:   "Mon-Fri: 9 AM - 5 PM",
		AcceptedTypes: []string{
			"Laptop", "Smartphone", "TV", "Monitor", "Printer", "Desktop", "Battery", "Cable",
		},
	},
	{
		ID:      2,
		Name:    "Eco-Friendly Disposal Hub",
		Address: "456 Recycle Road, Gachibowli, Hyderabad",
		Contact: "040-87654321",
		Hours:   "Mon-Sat: 10 AM - 6 PM",
		AcceptedTypes: []string{
			"Smartphone", "Tablet", "Battery", "Cable", "Other",
		},
	},
	{
		ID:      3,
		Name:    "City E-Waste Drop-off Point",
		Address: "789 Urban Street, Begumpet, Hyderabad",
		Contact: "N/A",
		Hours:   "24/7 Drop-off (Bin)",
		AcceptedTypes: []string{
			"Laptop", "Smartphone", "Tablet", "Monitor", "Printer", "Battery", "Cable",
		},
	},
	{
		ID:      4,
		Name:    "TechReuse Solutions",
		Address: "101 Tech Park, Hitech City, Hyderabad",
		Contact: "040-99887766",
		Hours:   "Mon-Fri: 9 AM - 7 PM",
		AcceptedTypes: []string{
			"Laptop", "Desktop", "Monitor", "Smartphone", "Tablet",
		},
	},
	{
		ID:      5,
		Name:    "Battery Recycle Point",
		Address: "22 Recharge Blvd, Jubilee Hills, Hyderabad",
		Contact: "040-11223344",
		Hours:   "Mon-Sun: 8 AM - 8 PM",
		AcceptedTypes: []string{
			"Battery", "Smartphone", "Tablet",
		},
	},
}

var guides = []Guide{
	{
		ID:          1,
		Title:       "The Hidden Dangers of E-Waste",
		Description: "Learn about the hazardous materials present in electronic waste and their environmental impact.",
		FullContent: "Electronic waste contains toxic materials like lead, mercury, cadmium, and beryllium. When disposed of improperly in landfills, these substances can leach into the soil and groundwater, contaminating our ecosystems and posing severe health risks to humans and wildlife.",
	},
	{
		ID:          2,
		Title:       "How to Prepare Your Devices for Recycling",
		Description: "Step-by-step guide on data wiping and preparing your electronics for safe disposal.",
		FullContent: "Before recycling, it's crucial to protect your personal data. For smartphones and computers, perform a factory reset or securely wipe your hard drive. Remove all personal accounts, SIM cards, and memory cards.",
	},
	{
		ID:          3,
		Title:       "The Benefits of E-Waste Recycling",
		Description: "Discover how recycling electronics conserves resources and reduces pollution.",
		FullContent: "Recycling e-waste is vital for environmental sustainability. It helps recover valuable materials like gold, silver, copper, and platinum, reducing the need for new mining and conserving natural resources.",
	},
	{
		ID:          4,
		Title:       "DIY: Extend Your Device's Lifespan",
		Description: "Simple tips and tricks to maintain and prolong the life of your electronic gadgets.",
		FullContent: "Extending the life of your electronic devices is a great way to reduce e-waste. Simple steps include using protective cases, avoiding extreme temperatures, and keeping software updated.",
	},
}
