package model

const TableOrderSequence = "order_sequence"

// Single-row counter backing order sequence number assignment.
// Incremented with a conditional UPDATE ... RETURNING inside the
// acceptance transaction, so concurrent accepts never get the same
// value and the sequence has no gaps.
type OrderSequence struct {
	ID        int `gorm:"primaryKey"`
	LastValue int64
}

func (OrderSequence) TableName() string {
	return TableOrderSequence
}
