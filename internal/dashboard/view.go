package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/homieapp/homie/internal/domain/entity"
)

// Card is one KPI tile
type Card struct {
	Icon  string
	Label string
	Value string
}

// DonationLine is one table row of the donations table. The donation
// columns are only rendered on the first line of a donation and span
// all of its lines.
type DonationLine struct {
	First         bool
	Span          int
	NoItems       bool
	DonatedAt     string
	DonatedTo     string
	PersonName    string
	ShelterName   string
	Product       string
	Quantity      string
	Amount        string
	LineTotal     string
	DonationTotal string
}

// DeliveryLine is one row of the deliveries table
type DeliveryLine struct {
	Organization string
	Recipient    string
	DeliveryType string
	OrderDate    string
	DeliveryDate string
}

// OrganizationView is the rendered state of an organization dashboard
type OrganizationView struct {
	Organization OrganizationRef
	Cards        []Card
	Donations    []DonationLine
	Deliveries   []DeliveryLine
}

// Cell is one cell of a generic table
type Cell struct {
	Image    bool
	ImageURL string
	Label    string
	Sub      string
	Text     string
}

// SectionView is one generic workspace table
type SectionView struct {
	Key     string
	Title   string
	Error   string
	Headers []string
	Rows    [][]Cell
}

// WorkspaceView is the rendered state of the workspace dashboard
type WorkspaceView struct {
	Cards    []Card
	KPIError string
	Sections []SectionView
}

var imageFields = map[string]bool{
	"image":                 true,
	"product_image":         true,
	"product_image_desktop": true,
	"logo":                  true,
	"organization_logo":     true,
	"org_logo":              true,
}

// formatNumber prints v without trailing zeros
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Renderer) money(v float64) string {
	return r.currency + formatNumber(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func trimmedName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

// recipientLabel picks the recipient column of a delivery
func recipientLabel(d DeliveryRow) string {
	switch d.DeliverTo {
	case entity.RecipientPerson:
		if name := trimmedName(d.FirstName, d.LastName); name != "" {
			return name
		}
		return d.PersonDetails
	case entity.RecipientAnimalShelter:
		if d.ShelterName != "" {
			return d.ShelterName
		}
		return d.ShelterDetails
	default:
		return ""
	}
}

func (r *Renderer) organizationView(p *OrganizationDashboard) *OrganizationView {
	v := &OrganizationView{
		Organization: p.Organization,
		Cards: []Card{
			{Icon: "💰", Label: "Total Donated", Value: r.money(p.KPIs.TotalDonated)},
			{Icon: "📦", Label: "Donations", Value: strconv.Itoa(p.KPIs.DonationCount)},
			{Icon: "🧑", Label: "Donations to Persons", Value: strconv.Itoa(p.KPIs.DonationToPersonCount)},
			{Icon: "🏠", Label: "Donations to Shelters", Value: strconv.Itoa(p.KPIs.DonationToShelterCount)},
			{Icon: "🚚", Label: "Deliveries", Value: strconv.Itoa(p.KPIs.DeliveryCount)},
		},
	}

	for _, d := range p.Donations {
		base := DonationLine{
			DonatedAt:     d.DonatedAt,
			DonatedTo:     d.DonatedTo,
			PersonName:    orDash(trimmedName(d.PersonFirstName, d.PersonLastName)),
			ShelterName:   orDash(d.ShelterName),
			DonationTotal: r.money(d.Total),
		}

		if len(d.Items) == 0 {
			line := base
			line.First, line.Span, line.NoItems = true, 1, true
			v.Donations = append(v.Donations, line)
			continue
		}

		for i, item := range d.Items {
			line := base
			line.First = i == 0
			line.Span = len(d.Items)
			line.Product = item.ProductName
			line.Quantity = strconv.Itoa(item.Quantity)
			line.Amount = r.money(item.Amount)
			line.LineTotal = r.money(item.Total)
			v.Donations = append(v.Donations, line)
		}
	}

	for _, d := range p.Deliveries {
		org := d.OrganizationName
		if org == "" {
			org = d.OrganizationDetail
		}
		v.Deliveries = append(v.Deliveries, DeliveryLine{
			Organization: org,
			Recipient:    recipientLabel(d),
			DeliveryType: d.DeliveryType,
			OrderDate:    d.OrderDate,
			DeliveryDate: d.DeliveryDate,
		})
	}
	return v
}

func workspaceCards(k *WorkspaceKPIs) []Card {
	if k == nil {
		k = &WorkspaceKPIs{}
	}
	return []Card{
		{Icon: "📦", Label: "Total Products", Value: strconv.Itoa(k.TotalProducts)},
		{Icon: "💰", Label: "Total Donations", Value: strconv.Itoa(k.TotalDonations)},
		{Icon: "€", Label: "Total Amount", Value: formatNumber(k.TotalAmount)},
		{Icon: "⚠️", Label: "Out of Stock", Value: strconv.Itoa(k.OutOfStock)},
		{Icon: "🏢", Label: "Active Organizations", Value: strconv.Itoa(k.ActiveOrganizations)},
	}
}

// headerTitle turns a column key into a table header. Casers keep state,
// so each call gets its own.
func headerTitle(key string) string {
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(key, "_", " "))
}

// ImageURL normalises a stored file path into a URL
func ImageURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http"):
		return path
	case strings.HasPrefix(path, "private/"):
		return "/" + path
	case strings.HasPrefix(path, "/files"):
		return path
	default:
		return "/files/" + path
	}
}

func cellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case float64:
		return formatNumber(x)
	case float32:
		return formatNumber(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// firstText returns the first non-empty string cell of row among keys
func firstText(row map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := row[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func tableView(key string, t *Table) SectionView {
	sv := SectionView{Key: key, Title: sectionTitles[key]}
	if t == nil || len(t.Rows) == 0 {
		return sv
	}

	for _, col := range t.Columns {
		sv.Headers = append(sv.Headers, headerTitle(col))
	}
	for _, row := range t.Rows {
		cells := make([]Cell, 0, len(t.Columns))
		for _, col := range t.Columns {
			if imageFields[col] {
				path, _ := row[col].(string)
				label := firstText(row, "organization_name", "product_name", "name")
				if label == "" {
					label = "Unnamed"
				}
				cells = append(cells, Cell{
					Image:    true,
					ImageURL: ImageURL(path),
					Label:    label,
					Sub:      firstText(row, "organization_type", "product_category"),
				})
				continue
			}
			cells = append(cells, Cell{Text: cellText(row[col])})
		}
		sv.Rows = append(sv.Rows, cells)
	}
	return sv
}
