// Package report renders a recommendation into a downloadable PDF summary.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mohammad-safakhou/cardwise/models"
)

// Filename returns the canonical report file name for a generation time.
func Filename(t time.Time) string {
	return "CardWise_Report_" + t.Format("20060102_150405") + ".pdf"
}

// ID returns the report identifier printed in the document footer.
func ID(t time.Time) string {
	return "CW-" + t.Format("20060102150405")
}

// Render produces the PDF report for a profile and its recommendation.
func Render(profile models.Profile, rec models.Recommendation, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 60, 120)
	pdf.CellFormat(0, 12, "CardWise Recommendation Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated "+generatedAt.Format("January 2, 2006 at 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	sectionHeader(pdf, "Your Profile")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	line(pdf, fmt.Sprintf("Monthly Spending: $%.0f", profile.MonthlySpend))
	line(pdf, "Credit Score Range: "+profile.CreditScore.Display())
	goals := ""
	for _, g := range models.AllGoals {
		if !profile.HasGoal(g) {
			continue
		}
		if goals != "" {
			goals += ", "
		}
		goals += g.Display()
	}
	line(pdf, "Goals: "+goals)
	for _, name := range profile.Categories() {
		line(pdf, fmt.Sprintf("  %s: %.0f%%", name, profile.CategoryAllocation[name]))
	}
	pdf.Ln(4)

	sectionHeader(pdf, "Primary Recommendation")
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	primary := rec.PrimaryCard
	if primary == "" {
		primary = "See full analysis below"
	}
	line(pdf, primary)
	pdf.SetFont("Helvetica", "", 11)
	if rec.Issuer != "" {
		line(pdf, "Issuer: "+rec.Issuer)
	}
	if rec.AnnualFee != "" {
		line(pdf, "Annual Fee: "+rec.AnnualFee)
	}
	if rec.RewardRate != "" {
		line(pdf, "Reward Rate: "+rec.RewardRate)
	}
	if rec.SignupBonus != "" {
		line(pdf, "Current Signup Bonus: "+rec.SignupBonus)
	}
	if rec.EstimatedAnnualValue != nil {
		line(pdf, fmt.Sprintf("Estimated Annual Value: $%.2f", *rec.EstimatedAnnualValue))
	}
	if rec.WhyRecommended != "" {
		pdf.Ln(2)
		wrapped(pdf, rec.WhyRecommended)
	}
	pdf.Ln(4)

	bulletSection(pdf, "Key Benefits", rec.Benefits)
	bulletSection(pdf, "Your Action Plan", rec.ActionPlan)
	bulletSection(pdf, "Optimization Tips", rec.OptimizationTips)

	if len(rec.Alternatives) > 0 {
		sectionHeader(pdf, "Alternative Options")
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(0, 0, 0)
		for _, alt := range rec.Alternatives {
			text := alt.CardName
			if alt.Reason != "" {
				text += " - " + alt.Reason
			}
			wrapped(pdf, "- "+text)
		}
		pdf.Ln(4)
	}

	if rec.PrimaryCard == "" && rec.RawText != "" {
		sectionHeader(pdf, "Full Analysis")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		wrapped(pdf, rec.RawText)
		pdf.Ln(4)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(0, 5, "Report ID: "+ID(generatedAt), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Recommendations are based on publicly available offer data and may change. Verify terms with the issuer before applying.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(30, 60, 120)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(30, 60, 120)
	x, y := pdf.GetXY()
	pdf.Line(x, y, x+50, y)
	pdf.Ln(3)
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
}

func wrapped(pdf *gofpdf.Fpdf, text string) {
	pdf.MultiCell(0, 5.5, text, "", "L", false)
}

func bulletSection(pdf *gofpdf.Fpdf, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sectionHeader(pdf, title)
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	for i, item := range items {
		prefix := "- "
		if title == "Your Action Plan" {
			prefix = fmt.Sprintf("%d. ", i+1)
		}
		wrapped(pdf, prefix+item)
	}
	pdf.Ln(4)
}
