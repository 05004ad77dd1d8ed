package obras

import (
	"strings"
	"time"
)

// Status is the sales-pipeline position of an obra. Any status is reachable
// from any other by a manual drag; there is no transition table on purpose,
// the business process is linear-with-exceptions.
type Status string

const (
	StatusEntrada      Status = "entrada"
	StatusTriagem      Status = "triagem"
	StatusAtribuida    Status = "atribuida"
	StatusEmNegociacao Status = "em_negociacao"
	StatusGanha        Status = "ganha"
	StatusPerdida      Status = "perdida"
	StatusArquivada    Status = "arquivada"
)

// AllStatuses is in pipeline order.
var AllStatuses = []Status{
	StatusEntrada, StatusTriagem, StatusAtribuida, StatusEmNegociacao,
	StatusGanha, StatusPerdida, StatusArquivada,
}

func (s Status) Valid() bool {
	switch s {
	case StatusEntrada, StatusTriagem, StatusAtribuida, StatusEmNegociacao,
		StatusGanha, StatusPerdida, StatusArquivada:
		return true
	default:
		return false
	}
}

// Stage is the construction phase of the physical site, independent of the
// pipeline status.
type Stage string

const (
	StageFundacao   Stage = "fundacao"
	StageAlvenaria  Stage = "alvenaria"
	StageAcabamento Stage = "acabamento"
	StagePintura    Stage = "pintura"
	StageTelhado    Stage = "telhado"
)

var AllStages = []Stage{
	StageFundacao, StageAlvenaria, StageAcabamento, StagePintura, StageTelhado,
}

func (s Stage) Valid() bool {
	switch s {
	case StageFundacao, StageAlvenaria, StageAcabamento, StagePintura, StageTelhado:
		return true
	default:
		return false
	}
}

type ContactType string

const (
	ContactDono        ContactType = "dono"
	ContactMestre      ContactType = "mestre_de_obras"
	ContactEngenheiro  ContactType = "engenheiro"
	ContactArquiteto   ContactType = "arquiteto"
	ContactEmpreiteiro ContactType = "empreiteiro"
	ContactOutro       ContactType = "outro"
)

var AllContactTypes = []ContactType{
	ContactDono, ContactMestre, ContactEngenheiro, ContactArquiteto, ContactEmpreiteiro, ContactOutro,
}

func (c ContactType) Valid() bool {
	switch c {
	case ContactDono, ContactMestre, ContactEngenheiro, ContactArquiteto, ContactEmpreiteiro, ContactOutro:
		return true
	default:
		return false
	}
}

type Contact struct {
	Name  string      `json:"name"`
	Type  ContactType `json:"type"`
	Phone string      `json:"phone"`
}

// Sale is one ledger entry. IDs are client-generated and time-based; the
// ledger, not any legacy single-value field, is the authoritative revenue
// record for an obra.
type Sale struct {
	ID          string    `json:"id"`
	OrderNumber string    `json:"order_number,omitempty"`
	Value       float64   `json:"value"`
	Date        time.Time `json:"date"`
}

type Obra struct {
	ID           string    `json:"id"`
	Street       string    `json:"street"`
	Number       string    `json:"number"`
	Neighborhood string    `json:"neighborhood"`
	Address      string    `json:"address"`
	Stage        Stage     `json:"stage"`
	Status       Status    `json:"status"`
	SellerID     string    `json:"seller_id,omitempty"`
	LojaID       string    `json:"loja_id"`
	Contacts     []Contact `json:"contacts"`
	Photos       []string  `json:"photos"`
	Details      string    `json:"details,omitempty"`
	Sales        []Sale    `json:"sales"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ComposeAddress keeps the denormalized address string in sync with its
// parts. Recomputed whenever any component changes.
func ComposeAddress(street, number, neighborhood string) string {
	parts := make([]string, 0, 3)
	if s := strings.TrimSpace(street); s != "" {
		if n := strings.TrimSpace(number); n != "" {
			parts = append(parts, s+", "+n)
		} else {
			parts = append(parts, s)
		}
	}
	if b := strings.TrimSpace(neighborhood); b != "" {
		parts = append(parts, b)
	}
	return strings.Join(parts, " - ")
}

// LedgerTotal sums the sales ledger. Callers must use this, never any
// single closed-value snapshot, for anything touching revenue.
func (o *Obra) LedgerTotal() float64 {
	var total float64
	for _, s := range o.Sales {
		total += s.Value
	}
	return total
}

// ObraFilter narrows a listing. Limit 0 applies the default page size;
// a negative Limit disables pagination and returns the full set.
type ObraFilter struct {
	LojaID   string
	SellerID string
	Status   Status
	Stage    Stage
	Limit    int
	Offset   int
}

type CreateObraRequest struct {
	Street       string
	Number       string
	Neighborhood string
	Stage        Stage
	LojaID       string
	Details      string
	Contacts     []Contact
}

type UpdateObraRequest struct {
	Street       *string
	Number       *string
	Neighborhood *string
	Stage        *Stage
	LojaID       *string
	Details      *string
	Contacts     []Contact
}

type SaleInput struct {
	OrderNumber string
	Value       float64
	Date        time.Time
}
