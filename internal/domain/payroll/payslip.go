package payroll

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"paykey/internal/faults"
)

// PayslipGenerator renders a PDF payslip for a successfully disbursed
// transaction.
type PayslipGenerator struct {
	store    StoreAPI
	dir      string
	currency string
}

func NewPayslipGenerator(store StoreAPI, dir, currency string) *PayslipGenerator {
	return &PayslipGenerator{store: store, dir: dir, currency: currency}
}

func (g *PayslipGenerator) Generate(ctx context.Context, employerID, txID string) (string, error) {
	tx, err := g.store.TransactionByID(ctx, employerID, txID)
	if err != nil {
		return "", err
	}
	if tx.Status != TxStatusSuccess {
		return "", &faults.ValidationError{Field: "transactionId", Reason: "payslips are only issued for successful disbursements"}
	}
	period, err := g.store.PeriodByID(ctx, employerID, tx.PayPeriodID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(g.dir, tx.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Worker: %s", tx.WorkerName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s (%s to %s)", period.Name,
		period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Reference: %s", tx.Reference))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s %s", tx.GrossSalary.StringFixed(2), g.currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("NSSF: %s", tx.Tax.NSSF.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("NHIF: %s", tx.Tax.NHIF.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Housing Levy: %s", tx.Tax.HousingLevy.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("PAYE: %s", tx.Tax.PAYE.StringFixed(2)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total Deductions: %s", tx.Tax.TotalDeductions.StringFixed(2)))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net Pay: %s %s", tx.NetPay.StringFixed(2), g.currency))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
