package cmd

import (
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/tui"
)

// Text renderings of API values. JSON and YAML output use the values
// themselves; these wrappers only add the table view.

// fields is a two-column property table
type fields [][2]string

func (f fields) Headers() []string { return []string{"FIELD", "VALUE"} }

func (f fields) Rows() [][]string {
	rows := make([][]string, 0, len(f))
	for _, kv := range f {
		if kv[1] == "" {
			continue
		}
		rows = append(rows, []string{kv[0], kv[1]})
	}
	return rows
}

type userTable []domain.User

func (t userTable) Headers() []string { return []string{"ID", "NOME", "EMAIL", "ROLE", "ATIVO"} }

func (t userTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, u := range t {
		rows = append(rows, []string{u.ID, u.DisplayName, u.Email, string(u.Role), yesNo(u.IsActive())})
	}
	return rows
}

func userFields(u *domain.User) fields {
	f := fields{
		{"id", u.ID},
		{"nome", u.DisplayName},
		{"email", u.Email},
		{"role", string(u.Role)},
		{"ativo", yesNo(u.IsActive())},
	}
	if u.HasAvatar() {
		f = append(f, [2]string{"avatar", "sim"})
	}
	return f
}

type postTable []domain.Post

func (t postTable) Headers() []string { return []string{"ID", "TÍTULO", "PUBLICADO", "TAGS"} }

func (t postTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, p := range t {
		rows = append(rows, []string{p.ID, p.Title, yesNoPtr(p.Published), strings.Join(p.Tags, ", ")})
	}
	return rows
}

func postFields(p *domain.Post) fields {
	f := fields{
		{"id", p.ID},
		{"titulo", p.Title},
		{"descricao", p.Description},
		{"publicado", yesNoPtr(p.Published)},
		{"tags", strings.Join(p.Tags, ", ")},
		{"imagemPrincipal", p.MainImage},
		{"clienteRef", p.ClientRef},
		{"createdAt", formatTime(p.CreatedAt)},
	}
	if p.Order != nil {
		f = append(f, [2]string{"ordem", strconv.Itoa(*p.Order)})
	}
	return f
}

type clientTable []domain.Client

func (t clientTable) Headers() []string {
	return []string{"ID", "NOME", "EMPRESA", "STATUS", "VENDEDOR", "PREÇO", "PAGO"}
}

func (t clientTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, c := range t {
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.CompanyName,
			c.Status,
			userRef(c.Salesperson),
			money(c.Price),
			money(c.AmountPaid),
		})
	}
	return rows
}

func clientFields(c *domain.Client) fields {
	f := fields{
		{"id", c.ID},
		{"nome", c.Name},
		{"email", c.Email},
		{"telefone", c.Phone},
		{"celular", c.Mobile},
		{"whatsapp", c.WhatsApp},
		{"nomeEmpresa", c.CompanyName},
		{"cnpj", c.TaxID},
		{"tipoSite", c.SiteType},
		{"status", c.Status},
		{"etapa", c.Stage},
		{"origemLead", c.LeadOrigin},
		{"formaPagamento", c.PaymentMethod},
		{"preco", money(c.Price)},
		{"precoPago", money(c.AmountPaid)},
		{"vendedor", userRef(c.Salesperson)},
		{"responsavel", userRef(c.Owner)},
		{"urlSite", c.SiteURL},
		{"observacoes", c.Notes},
		{"createdAt", formatTime(c.CreatedAt)},
	}
	if a := c.Address; a != nil {
		f = append(f, [2]string{"cidade", strings.TrimSpace(a.City + " " + a.State)})
	}
	return f
}

type ticketTable []domain.Ticket

func (t ticketTable) Headers() []string {
	return []string{"ID", "TÍTULO", "STATUS", "PRIORIDADE", "CLIENTE", "RESPONSÁVEL"}
}

func (t ticketTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, tk := range t {
		rows = append(rows, []string{tk.ID, tk.Title, tk.Status, tk.Priority, clientRef(tk.Client), userRef(tk.Owner)})
	}
	return rows
}

// ticketView is a ticket with its comment thread
type ticketView struct {
	*domain.Ticket
}

func (v ticketView) String() string {
	var b strings.Builder
	b.WriteString(v.Title + "\n" + strings.Repeat("=", len([]rune(v.Title))) + "\n")

	props := fields{
		{"id", v.ID},
		{"status", v.Status},
		{"prioridade", v.Priority},
		{"cliente", clientRef(v.Client)},
		{"responsavel", userRef(v.Owner)},
		{"anexos", countOrEmpty(len(v.Attachments))},
		{"createdAt", formatTime(v.CreatedAt)},
	}
	for _, row := range props.Rows() {
		b.WriteString(row[0] + ": " + row[1] + "\n")
	}
	if v.Description != "" {
		b.WriteString("\n" + v.Description + "\n")
	}
	for _, c := range v.Comments {
		b.WriteString("\n> " + userRef(c.Author))
		if c.CreatedAt != nil {
			b.WriteString(" · " + formatTime(c.CreatedAt))
		}
		b.WriteString("\n" + c.Text + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

type contactTable []domain.Contact

func (t contactTable) Headers() []string { return []string{"ID", "NOME", "EMAIL", "LIDO", "RECEBIDO"} }

func (t contactTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, c := range t {
		rows = append(rows, []string{c.ID, c.Name, c.Email, yesNo(c.Read), formatTime(c.CreatedAt)})
	}
	return rows
}

func contactFields(c *domain.Contact) fields {
	return fields{
		{"id", c.ID},
		{"nome", c.Name},
		{"email", c.Email},
		{"telefone", c.Phone},
		{"mensagem", c.Message},
		{"lido", yesNo(c.Read)},
		{"respondido", yesNo(c.Answered)},
		{"observacao", c.Note},
		{"createdAt", formatTime(c.CreatedAt)},
	}
}

type notificationTable []domain.Notification

func (t notificationTable) Headers() []string { return []string{"ID", "TÍTULO", "MENSAGEM", "LIDA"} }

func (t notificationTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, n := range t {
		rows = append(rows, []string{n.ID, n.Title, n.Message, yesNo(n.Read)})
	}
	return rows
}

// optionTable lists named option sets, one value per row
type optionTable struct {
	names  []string
	values map[string][]string
}

func (t optionTable) Headers() []string { return []string{"LISTA", "VALOR"} }

func (t optionTable) Rows() [][]string {
	var rows [][]string
	for _, name := range t.names {
		for _, v := range t.values[name] {
			rows = append(rows, []string{name, v})
		}
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}

func yesNoPtr(b *bool) string {
	if b == nil {
		return "não"
	}
	return yesNo(*b)
}

func money(v *float64) string {
	if v == nil {
		return ""
	}
	return tui.FormatBRL(*v)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006 15:04")
}

func countOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func userRef(r *domain.Ref[domain.User]) string {
	switch {
	case r == nil:
		return ""
	case r.Populated() && r.Value.DisplayName != "":
		return r.Value.DisplayName
	default:
		return r.ID
	}
}

func clientRef(r *domain.Ref[domain.Client]) string {
	switch {
	case r == nil:
		return ""
	case r.Populated() && r.Value.Name != "":
		return r.Value.Name
	default:
		return r.ID
	}
}
