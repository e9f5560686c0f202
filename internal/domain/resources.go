package domain

import "time"

// Post is a portfolio/content entry
type Post struct {
	ID               string     `json:"_id,omitempty"`
	Title            string     `json:"titulo"`
	Description      string     `json:"descricao,omitempty"`
	MainImage        string     `json:"imagemPrincipal,omitempty"`
	AdditionalImages []string   `json:"imagensAdicionais,omitempty"`
	Published        *bool      `json:"publicado,omitempty"`
	Order            *int       `json:"ordem,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	ClientRef        string     `json:"clienteRef,omitempty"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
}

// Address is a client's postal address
type Address struct {
	Street     string `json:"logradouro,omitempty"`
	Number     string `json:"numero,omitempty"`
	Complement string `json:"complemento,omitempty"`
	District   string `json:"bairro,omitempty"`
	City       string `json:"cidade,omitempty"`
	State      string `json:"estado,omitempty"`
	PostalCode string `json:"cep,omitempty"`
}

// Client is a CRM client (lead or customer)
type Client struct {
	ID                string     `json:"_id,omitempty"`
	Name              string     `json:"nome"`
	Email             string     `json:"email,omitempty"`
	Phone             string     `json:"telefone,omitempty"`
	Phone2            string     `json:"telefone2,omitempty"`
	Mobile            string     `json:"celular,omitempty"`
	WhatsApp          string     `json:"whatsapp,omitempty"`
	JobTitle          string     `json:"cargo,omitempty"`
	CompanyName       string     `json:"nomeEmpresa,omitempty"`
	LegalName         string     `json:"razaoSocial,omitempty"`
	TaxID             string     `json:"cnpj,omitempty"`
	Industry          string     `json:"ramoAtividade,omitempty"`
	SiteType          string     `json:"tipoSite,omitempty"`
	Price             *float64   `json:"preco,omitempty"`
	AmountPaid        *float64   `json:"precoPago,omitempty"`
	DownPayment       *float64   `json:"valorEntrada,omitempty"`
	InstallmentValue  *float64   `json:"valorParcelas,omitempty"`
	PaymentMethod     string     `json:"formaPagamento,omitempty"`
	Installments      *int       `json:"quantidadeParcelas,omitempty"`
	Status            string     `json:"status,omitempty"`
	Stage             string     `json:"etapa,omitempty"`
	Probability       *float64   `json:"probabilidade,omitempty"`
	LeadOrigin        string     `json:"origemLead,omitempty"`
	ProposalDate      string     `json:"dataProposta,omitempty"`
	ClosingDate       string     `json:"dataFechamento,omitempty"`
	ExpectedDelivery  string     `json:"dataEntregaPrevista,omitempty"`
	FirstContactDate  string     `json:"dataPrimeiroContato,omitempty"`
	ContractDate      string     `json:"dataContrato,omitempty"`
	SiteURL           string     `json:"urlSite,omitempty"`
	Domain            string     `json:"dominio,omitempty"`
	Hosting           string     `json:"hospedagem,omitempty"`
	Salesperson       *Ref[User] `json:"vendedor,omitempty"`
	Owner             *Ref[User] `json:"responsavel,omitempty"`
	Address           *Address   `json:"endereco,omitempty"`
	AdditionalInfo    string     `json:"informacoesAdicionais,omitempty"`
	Notes             string     `json:"observacoes,omitempty"`
	InternalNotes     string     `json:"observacoesInternas,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
}

// PriceValue returns the sale price, zero when unset
func (c *Client) PriceValue() float64 {
	if c.Price == nil {
		return 0
	}
	return *c.Price
}

// PaidValue returns the amount received, zero when unset
func (c *Client) PaidValue() float64 {
	if c.AmountPaid == nil {
		return 0
	}
	return *c.AmountPaid
}

// Attachment is a file attached to a ticket, carried inline as base64
type Attachment struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename,omitempty"`
}

// Comment is a ticket comment
type Comment struct {
	Text      string     `json:"texto"`
	Author    *Ref[User] `json:"autor,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Ticket is a support ticket
type Ticket struct {
	ID          string       `json:"_id,omitempty"`
	Title       string       `json:"titulo"`
	Description string       `json:"descricao,omitempty"`
	Status      string       `json:"status,omitempty"`
	Priority    string       `json:"prioridade,omitempty"`
	Client      *Ref[Client] `json:"cliente,omitempty"`
	Owner       *Ref[User]   `json:"responsavel,omitempty"`
	Attachments []Attachment `json:"anexos,omitempty"`
	Comments    []Comment    `json:"comentarios,omitempty"`
	CreatedAt   *time.Time   `json:"createdAt,omitempty"`
}

// Contact is a message left through the public site's contact form
type Contact struct {
	ID        string     `json:"_id,omitempty"`
	Name      string     `json:"nome"`
	Email     string     `json:"email"`
	Phone     string     `json:"telefone,omitempty"`
	Message   string     `json:"mensagem"`
	Read      bool       `json:"lido,omitempty"`
	Answered  bool       `json:"respondido,omitempty"`
	Note      string     `json:"observacao,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Notification is an in-panel notification
type Notification struct {
	ID        string     `json:"_id"`
	Title     string     `json:"titulo"`
	Message   string     `json:"mensagem,omitempty"`
	Link      string     `json:"link,omitempty"`
	Read      bool       `json:"lida,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
