package models

// All returns every model handled by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Table{},
		&QueueEntry{},
		&Waiter{},
		&Message{},
		&Promotion{},
	}
}
