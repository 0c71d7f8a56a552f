package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeExpense  TxType = "expense"
	TypeIncome   TxType = "income"
	TypeTransfer TxType = "transfer"
)

const (
	KindExpense CategoryKind = "expense"
	KindIncome  CategoryKind = "income"
)

// UncategorizedLabel is the display name used for transactions without a category.
const UncategorizedLabel = "Uncategorized"

type (
	TxType       string
	CategoryKind string

	Money struct {
		Cents int64
	}

	Account struct {
		ID        int64
		Name      string
		Type      string
		CreatedAt time.Time
	}

	Category struct {
		ID   int64
		Name string
		Kind CategoryKind
	}

	Tag struct {
		ID   int64
		Name string
	}

	// CategoryRef is a tagged-optional category reference. The zero value
	// means "no category" and never collides with a real category id.
	CategoryRef struct {
		ID    int64
		Valid bool
	}

	Transaction struct {
		ID            int64
		Date          Date
		Description   string
		Amount        Money // signed: negative = outflow, positive = inflow
		Type          TxType
		AccountID     int64
		Category      CategoryRef
		CategoryName  string // resolved display name, empty when Category is not valid
		TransferGroup string
		Tags          []string
		CreatedAt     time.Time
	}

	Budget struct {
		ID         int64
		Month      string // YYYY-MM
		CategoryID int64
		Amount     Money
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrZeroAmount      = errors.New("amount must be non-zero")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidKind     = errors.New("invalid category kind")
	ErrInvalidMonth    = errors.New("invalid month token")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyName       = errors.New("empty name")
	ErrMissingAccount  = errors.New("missing account reference")
	ErrMissingCategory = errors.New("missing category reference")
)

// Date is a calendar day without a time component, always UTC.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t TxType) Validate() error {
	switch t {
	case TypeExpense, TypeIncome, TypeTransfer:
		return nil
	}
	return ErrInvalidType
}

func (k CategoryKind) Validate() error {
	switch k {
	case KindExpense, KindIncome:
		return nil
	}
	return ErrInvalidKind
}

// SomeCategory returns a valid reference to the given category id.
func SomeCategory(id int64) CategoryRef {
	return CategoryRef{ID: id, Valid: true}
}

// NoCategory returns the explicit "no category" reference.
func NoCategory() CategoryRef {
	return CategoryRef{}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return c.Kind.Validate()
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return errors.New("empty description")
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if tx.Amount.Cents == 0 {
		return ErrZeroAmount
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if tx.AccountID <= 0 {
		return ErrMissingAccount
	}
	return nil
}

func (b Budget) Validate() error {
	if _, _, err := ParseMonth(b.Month); err != nil {
		return err
	}
	if b.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if b.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
