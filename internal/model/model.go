package model

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Organization{},
		&User{},
		&Customer{},
		&Product{},
		&Campaign{},
		&Course{},
		&Payment{},
		&ActivityLog{},
	}
}
