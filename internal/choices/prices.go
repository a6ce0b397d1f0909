package choices

// Decision groups a traveler can answer. The itinerary is fixed for
// the trip, so the table is static rather than stored.
const (
	ItemValleDeUco = "valle-de-uco-activity"
	ItemBariloche  = "bariloche-activity"
	ItemTangoNight = "tango-night"
)

// Options within the groups.
const (
	OptionHorse         = "horse"
	OptionWalking       = "walking"
	OptionRafting       = "rafting"
	OptionCircuitoChico = "circuitochico"
	OptionTango         = "tango"
)

// Prices in euros.
const (
	priceValleDeUco    = 50
	priceRafting       = 60
	priceCircuitoChico = 40
	priceTangoNight    = 25
)

// priceFor resolves the cost of accepting an option. Valle de Uco and
// the tango night cost the same whichever option is picked; Bariloche
// prices rafting apart from the circuito chico outing.
func priceFor(itemKey, option string) (int, error) {
	switch itemKey {
	case ItemValleDeUco:
		return priceValleDeUco, nil
	case ItemBariloche:
		if option == OptionRafting {
			return priceRafting, nil
		}
		return priceCircuitoChico, nil
	case ItemTangoNight:
		return priceTangoNight, nil
	default:
		return 0, ErrUnknownItemKey
	}
}
