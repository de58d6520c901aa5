package models

// All lists every table in migration order: referenced tables first.
func All() []interface{} {
	return []interface{}{
		&Driver{},
		&Truck{},
		&Shipment{},
		&DriverShipment{},
		&Customer{},
	}
}
