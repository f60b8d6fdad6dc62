// Package reconcile implementa el motor de conciliación de existencias
// (servicio de dominio, funciones puras): cálculo de diferencias entre
// cantidad registrada y contada, y agregación de totales de una sesión.
package reconcile

import "github.com/shopspring/decimal"

// Classification clasifica una línea de conciliación según el signo de la diferencia.
type Classification string

const (
	ClassMatch    Classification = "match"    // contado == registrado
	ClassShortage Classification = "shortage" // faltante: contado < registrado
	ClassSurplus  Classification = "surplus"  // sobrante: contado > registrado
)

// Result es el resultado del cálculo de diferencia para una línea.
type Result struct {
	Difference     decimal.Decimal // contado - registrado (con signo)
	MonetaryImpact decimal.Decimal // Difference * costo unitario (con signo)
	Classification Classification
}

// Calculate computa la diferencia de una línea de conciliación.
// Diferencia = contado - registrado; impacto = diferencia * costoUnitario.
// Tolera costoUnitario == 0 (impacto cero). Sin efectos secundarios.
func Calculate(recorded, counted, unitCost decimal.Decimal) Result {
	diff := counted.Sub(recorded)
	res := Result{
		Difference:     diff,
		MonetaryImpact: diff.Mul(unitCost),
	}
	switch {
	case diff.IsZero():
		res.Classification = ClassMatch
	case diff.IsNegative():
		res.Classification = ClassShortage
	default:
		res.Classification = ClassSurplus
	}
	return res
}

// Totals agrega los resultados de todas las líneas de una sesión.
// Unidades y valores de faltante/sobrante son siempre >= 0 (valores absolutos);
// NetValue conserva el signo (sobrante - faltante).
type Totals struct {
	ShortageUnits       decimal.Decimal
	SurplusUnits        decimal.Decimal
	ShortageValue       decimal.Decimal
	SurplusValue        decimal.Decimal
	NetValue            decimal.Decimal
	ItemsWithDifference int
}

// Aggregate suma los resultados por línea. Es idempotente y barato: se puede
// recomputar en cada cambio de entrada de una sesión interactiva.
func Aggregate(results []Result) Totals {
	t := Totals{
		ShortageUnits: decimal.Zero,
		SurplusUnits:  decimal.Zero,
		ShortageValue: decimal.Zero,
		SurplusValue:  decimal.Zero,
		NetValue:      decimal.Zero,
	}
	for _, r := range results {
		switch r.Classification {
		case ClassShortage:
			t.ShortageUnits = t.ShortageUnits.Add(r.Difference.Abs())
			t.ShortageValue = t.ShortageValue.Add(r.MonetaryImpact.Abs())
			t.ItemsWithDifference++
		case ClassSurplus:
			t.SurplusUnits = t.SurplusUnits.Add(r.Difference)
			t.SurplusValue = t.SurplusValue.Add(r.MonetaryImpact)
			t.ItemsWithDifference++
		}
	}
	t.NetValue = t.SurplusValue.Sub(t.ShortageValue)
	return t
}
