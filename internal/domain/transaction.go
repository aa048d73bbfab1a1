package domain

// Transaction types recorded on wallet credits
const (
	TxTypeCommission = "commission" // Commission credited at enrollment time
)

// Transaction Model: a ledger entry for a wallet credit
type Transaction struct {
	ID           uint    `gorm:"primaryKey"` // Primary key
	ToWalletID   uint    `gorm:"index"`      // Foreign key to the credited Wallet
	EnrollmentID *uint   // Foreign key to the Enrollment that produced the credit
	Amount       float64 // Amount credited
	Type         string  // Transaction type: commission
	CreatedAt    int64   `gorm:"autoCreateTime:milli"` // Timestamp of creation in milliseconds
}
