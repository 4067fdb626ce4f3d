package domain

import "time"

// Role of a wallet's owning account. Store keepers may receive transfers but
// never appear as the payer.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleStoreKeeper Role = "store_keeper"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleStoreKeeper
}

// Owner is the account that owns a wallet. The role lives here and is read
// through the wallet for the payer-role check.
type Owner struct {
	ID   string
	Name string
	Role Role
}

// Wallet is an account's spendable balance, the unit of locking and mutation.
// Owner is populated only by owner-including reads.
type Wallet struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Owner     *Owner
	ID        string
	OwnerID   string
	Balance   Money
}

// HasSufficientBalance reports whether the wallet can cover amount. A
// currency mismatch counts as insufficient.
func (w *Wallet) HasSufficientBalance(amount Money) bool {
	ok, err := w.Balance.GreaterThanOrEqual(amount)
	return err == nil && ok
}

// IsStoreKeeper reports whether the owning account holds the restricted
// store keeper role. Reads with no owner loaded are never store keepers.
func (w *Wallet) IsStoreKeeper() bool {
	return w.Owner != nil && w.Owner.Role == RoleStoreKeeper
}
