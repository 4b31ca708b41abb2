package domain

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Category struct {
	ID   int    `json:"-"`
	Name string `json:"name"`
}

type Price struct {
	ID       int     `json:"id"`
	Amount   float64 `json:"amount"`
	Quantity int     `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Product struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Desc       string     `json:"desc"`
	Image      string     `json:"image"`
	Available  bool       `json:"available"`
	Highlight  bool       `json:"highlight"`
	Prices     []Price    `json:"prices"`
	Categories []Category `json:"categories"`
}

type Delivery struct {
	ID       int `json:"id"`
	Distance int `json:"distance"`
	Amount   int `json:"amount"`
}

type Contact struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Address struct {
	ID      int    `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Order struct {
	ID      int         `json:"id"`
	Created time.Time   `json:"created"`
	When    Date        `json:"when"`
	Contact Contact     `json:"contact"`
	Address *Address    `json:"address,omitempty"`
	Items   []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID int     `json:"product"`
	OrderID   int     `json:"-"`
	Amount    float64 `json:"amount"`
	Quantity  int     `json:"quantity"`
	Unit      string  `json:"unit"`
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
