package constant

type Action string

const (
	ActionDeposit       Action = "DEPOSIT"
	ActionWithdraw      Action = "WITHDRAW"
	ActionCreateAccount Action = "CREATE_ACCOUNT"
	ActionCctpBurn      Action = "CCTP_BURN"
	ActionCctpMint      Action = "CCTP_MINT"
	ActionBundle        Action = "BUNDLE"
)

// Submission statuses stored in the submissions table.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
)

// Circle attestation statuses.
const (
	AttestationComplete             = "complete"
	AttestationPendingConfirmations = "pending_confirmations"
	AttestationPending              = "PENDING"
)
