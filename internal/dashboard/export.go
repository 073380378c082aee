package dashboard

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	donationsSheet  = "Donations"
	deliveriesSheet = "Deliveries"
)

var (
	donationHeaders = []string{"Donation", "Date", "Donated To", "Person Name", "Shelter Name", "Product", "Qty", "Amount", "Line Total", "Donation Total"}
	deliveryHeaders = []string{"Delivery", "Organization", "Recipient", "Delivery Type", "Order Date", "Delivery Date"}
)

// WriteOrganizationWorkbook writes the donations and deliveries of an
// organization dashboard as an xlsx workbook, one item per donation row.
func WriteOrganizationWorkbook(w io.Writer, p *OrganizationDashboard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", donationsSheet); err != nil {
		return fmt.Errorf("failed to name donations sheet: %w", err)
	}
	if _, err := f.NewSheet(deliveriesSheet); err != nil {
		return fmt.Errorf("failed to create deliveries sheet: %w", err)
	}

	if err := writeRow(f, donationsSheet, 1, toCells(donationHeaders)); err != nil {
		return err
	}
	row := 2
	for _, d := range p.Donations {
		person := trimmedName(d.PersonFirstName, d.PersonLastName)
		if len(d.Items) == 0 {
			if err := writeRow(f, donationsSheet, row, []interface{}{d.Name, d.DonatedAt, d.DonatedTo, person, d.ShelterName, "", nil, nil, nil, d.Total}); err != nil {
				return err
			}
			row++
			continue
		}
		for _, item := range d.Items {
			if err := writeRow(f, donationsSheet, row, []interface{}{d.Name, d.DonatedAt, d.DonatedTo, person, d.ShelterName, item.ProductName, item.Quantity, item.Amount, item.Total, d.Total}); err != nil {
				return err
			}
			row++
		}
	}

	if err := writeRow(f, deliveriesSheet, 1, toCells(deliveryHeaders)); err != nil {
		return err
	}
	for i, d := range p.Deliveries {
		org := d.OrganizationName
		if org == "" {
			org = d.OrganizationDetail
		}
		if err := writeRow(f, deliveriesSheet, i+2, []interface{}{d.Name, org, recipientLabel(d), d.DeliveryType, d.OrderDate, d.DeliveryDate}); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(donationsSheet, "A", "J", 16)
	_ = f.SetColWidth(deliveriesSheet, "A", "F", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
