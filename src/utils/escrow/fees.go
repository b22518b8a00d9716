package escrow

// Fee in basis points, rounded down. The remainder after the fee is
// the fulfiller's payout, so rounding always favors the fulfiller.
func Fee(amount, feeBps int64) int64 {
	return amount * feeBps / 10000
}

// Split divides a settled amount into payout and fee
func Split(amount, feeBps int64) (payout, fee int64) {
	fee = Fee(amount, feeBps)
	payout = amount - fee
	return
}
