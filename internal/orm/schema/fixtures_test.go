package schema

import (
	"errors"
	"fmt"
)

// Customer declares an identifier, a secret field, a bool accessor and a
// field without any accessor.
type Customer struct {
	_      Document `jsondb:"collection=customers,schemaVersion=1.0"`
	ID     string   `json:"id" jsondb:"id"`
	Name   string   `json:"name"`
	SSN    string   `json:"ssn" jsondb:"secret"`
	Active bool     `json:"active"`
	Notes  string   `json:"notes"`
}

func (c *Customer) GetID() string { return c.ID }
func (c *Customer) SetID(id string) { c.ID = id }
func (c *Customer) GetName() string { return c.Name }
func (c *Customer) SetName(name string) { c.Name = name }
func (c *Customer) GetSSN() string { return c.SSN }
func (c *Customer) SetSSN(ssn string) { c.SSN = ssn }
func (c *Customer) IsActive() bool { return c.Active }
func (c *Customer) SetActive(active bool) { c.Active = active }

// CustomerV2 reuses the customers collection name
type CustomerV2 struct {
	_     Document `jsondb:"collection=customers,schemaVersion=2.0"`
	Email string   `json:"email" jsondb:"id"`
}

func (c *CustomerV2) GetEmail() string { return c.Email }

// BaseEntity is embedded by Order
type BaseEntity struct {
	Key     string `json:"key" jsondb:"id"`
	Created string `json:"created"`
	Token   string `json:"token" jsondb:"secret"`
}

func (b *BaseEntity) GetCreated() string { return b.Created }

// Order marks an own field and an embedded field as identifier; the
// embedded one comes later in the walk.
type Order struct {
	_      Document `jsondb:"collection=orders,schemaVersion=2.0"`
	Number string   `json:"number" jsondb:"id"`
	BaseEntity
	Total int `json:"total"`
}

func (o *Order) GetNumber() string { return o.Number }
func (o *Order) GetTotal() int { return o.Total }
func (o *Order) SetTotal(total int) { o.Total = total }

// TwoIDs marks two own fields as identifier
type TwoIDs struct {
	_ Document `jsondb:"collection=two_ids,schemaVersion=1.0"`
	A string   `json:"a" jsondb:"id"`
	B string   `json:"b" jsondb:"id,secret"`
}

func (t *TwoIDs) GetA() string { return t.A }
func (t *TwoIDs) GetB() string { return t.B }
func (t *TwoIDs) SetB(b string) { t.B = b }

// Legacy uses unexported fields without json tags
type Legacy struct {
	_       Document `jsondb:"collection=legacy,schemaVersion=1"`
	id      string   `jsondb:"id"`
	enabled bool
}

func (l *Legacy) GetId() string { return l.id }
func (l *Legacy) SetId(id string) { l.id = id }
func (l *Legacy) IsEnabled() bool { return l.enabled }
func (l *Legacy) SetEnabled(on bool) { l.enabled = on }

// Malformed has identifier methods with the wrong shape
type Malformed struct {
	_  Document `jsondb:"collection=malformed,schemaVersion=1.0"`
	ID string   `json:"id" jsondb:"id"`
}

func (m *Malformed) GetID(prefix string) string { return prefix + m.ID }
func (m *Malformed) SetID(a, b string) { m.ID = a + b }

// Account has a mutator that validates its argument
type Account struct {
	_       Document `jsondb:"collection=accounts,schemaVersion=1.0"`
	ID      int      `json:"id" jsondb:"id"`
	Balance int      `json:"balance"`
}

var errNegativeBalance = errors.New("negative balance")

func (a *Account) GetID() int { return a.ID }
func (a *Account) SetID(id int) { a.ID = id }
func (a *Account) GetBalance() int { return a.Balance }
func (a *Account) SetBalance(v int) error {
	if v < 0 {
		return fmt.Errorf("balance %d: %w", v, errNegativeBalance)
	}
	a.Balance = v
	return nil
}

// Mapped registers its identifier operations explicitly
type Mapped struct {
	_     Document `jsondb:"collection=mapped,schemaVersion=1.0"`
	Ref   string   `json:"ref" jsondb:"id"`
	Label string   `json:"label"`
}

func (m *Mapped) GetLabel() string { return m.Label }

// GetRef is shadowed by the explicit accessor below
func (m *Mapped) GetRef() string { return "method:" + m.Ref }

func (m *Mapped) MapFields(fm *FieldMap) {
	fm.Accessor("ref", func(record any) any {
		return record.(*Mapped).Ref
	})
	fm.Mutator("ref", func(record any, value any) error {
		s, ok := value.(string)
		if !ok {
			return ErrValueType
		}
		record.(*Mapped).Ref = s
		return nil
	})
	fm.Accessor("missing", func(record any) any { return nil })
}

// Plain carries no Document marker
type Plain struct {
	X int `json:"x"`
}

// NoName and NoVersion carry incomplete markers
type NoName struct {
	_ Document `jsondb:"schemaVersion=1.0"`
}

type NoVersion struct {
	_ Document `jsondb:"collection=no_version"`
}

// Audit is embedded by pointer in Ticket and marks a later identifier
type Audit struct {
	Ref        string `json:"ref" jsondb:"id"`
	Created    string `json:"created"`
	SecretNote string `json:"secret_note" jsondb:"secret"`
}

func (a *Audit) GetRef() string { return a.Ref }
func (a *Audit) GetCreated() string { return a.Created }
func (a *Audit) SetCreated(created string) { a.Created = created }

type Ticket struct {
	_  Document `jsondb:"collection=tickets,schemaVersion=1.0"`
	ID string   `json:"id" jsondb:"id"`
	*Audit
	Title string `json:"title"`
}

func (t *Ticket) GetID() string { return t.ID }
func (t *Ticket) GetTitle() string { return t.Title }

// Outer reaches Stamp through two embedded pointers
type Inner struct {
	Stamp string `json:"stamp"`
}

func (i *Inner) GetStamp() string { return i.Stamp }
func (i *Inner) SetStamp(stamp string) { i.Stamp = stamp }

type Middle struct {
	*Inner
}

type Outer struct {
	_ Document `jsondb:"collection=outers,schemaVersion=1.0"`
	*Middle
}

// Sealed embeds an unexported struct by pointer
type seal struct {
	Mark string `json:"mark"`
}

func (s *seal) GetMark() string { return s.Mark }
func (s *seal) SetMark(mark string) { s.Mark = mark }

type Sealed struct {
	_ Document `jsondb:"collection=sealed,schemaVersion=1.0"`
	*seal
}

// Node embeds itself
type Node struct {
	_    Document `jsondb:"collection=nodes,schemaVersion=1.0"`
	Name string   `json:"name" jsondb:"id"`
	*Node
}

func (n *Node) GetName() string { return n.Name }

// CycleA and CycleB embed each other
type CycleA struct {
	_ Document `jsondb:"collection=cycles,schemaVersion=1.0"`
	A string   `json:"a" jsondb:"id"`
	*CycleB
}

type CycleB struct {
	B string `json:"b" jsondb:"id"`
	*CycleA
}

func (a *CycleA) GetA() string { return a.A }
func (b *CycleB) GetB() string { return b.B }
func (b *CycleB) SetB(v string) { b.B = v }

// Diamond reaches Stamp through both Left and Right
type Stamp struct {
	Created string `json:"created"`
}

func (s *Stamp) GetCreated() string { return s.Created }

type Left struct {
	L string `json:"l"`
	Stamp
}

type Right struct {
	R string `json:"r"`
	Stamp
}

type Diamond struct {
	_ Document `jsondb:"collection=diamonds,schemaVersion=1.0"`
	Left
	Right
}

func (l *Left) GetL() string { return l.L }
func (r *Right) GetR() string { return r.R }

// Envelope embeds Meta under a json name, so meta is a nested object
type Meta struct {
	Owner string `json:"owner" jsondb:"secret"`
}

type Envelope struct {
	_    Document `jsondb:"collection=envelopes,schemaVersion=1.0"`
	ID   string   `json:"id" jsondb:"id"`
	Meta `json:"meta"`
}

func (e *Envelope) GetID() string { return e.ID }
func (e *Envelope) GetMeta() Meta { return e.Meta }
