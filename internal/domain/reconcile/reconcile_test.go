package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventariox/inventariox-api/internal/domain/reconcile"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// TestCalculate_Clasificacion verifica que la clasificación sigue exactamente
// el signo de la diferencia: cero -> match, negativa -> shortage, positiva -> surplus.
func TestCalculate_Clasificacion(t *testing.T) {
	cases := []struct {
		name               string
		recorded, counted  int64
		wantDiff           int64
		wantClassification reconcile.Classification
	}{
		{"match", 50, 50, 0, reconcile.ClassMatch},
		{"faltante", 50, 42, -8, reconcile.ClassShortage},
		{"sobrante", 50, 55, 5, reconcile.ClassSurplus},
		{"todo faltante", 10, 0, -10, reconcile.ClassShortage},
		{"desde cero", 0, 3, 3, reconcile.ClassSurplus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := reconcile.Calculate(d(tc.recorded), d(tc.counted), d(1000))
			assert.True(t, res.Difference.Equal(d(tc.wantDiff)),
				"diferencia = contado - registrado, esperaba %d y obtuve %s", tc.wantDiff, res.Difference)
			assert.Equal(t, tc.wantClassification, res.Classification)
		})
	}
}

// TestCalculate_ImpactoMonetario verifica impacto = diferencia * costo,
// incluyendo el caso costo == 0 (impacto siempre cero).
func TestCalculate_ImpactoMonetario(t *testing.T) {
	res := reconcile.Calculate(d(50), d(42), d(1000))
	assert.True(t, res.MonetaryImpact.Equal(d(-8000)),
		"faltante de 8 a costo 1000 debe impactar -8000, obtuve %s", res.MonetaryImpact)

	res = reconcile.Calculate(d(50), d(55), d(1000))
	assert.True(t, res.MonetaryImpact.Equal(d(5000)))

	// Costo cero: impacto cero sin importar la diferencia
	res = reconcile.Calculate(d(50), d(10), decimal.Zero)
	assert.True(t, res.MonetaryImpact.IsZero(), "con costo 0 el impacto debe ser 0")
	assert.Equal(t, reconcile.ClassShortage, res.Classification)
}

// TestCalculate_CantidadesFraccionarias verifica que el cálculo respeta la
// granularidad de la unidad de medida (kg con decimales).
func TestCalculate_CantidadesFraccionarias(t *testing.T) {
	recorded := decimal.RequireFromString("2.5")
	counted := decimal.RequireFromString("1.75")
	cost := decimal.RequireFromString("4200")

	res := reconcile.Calculate(recorded, counted, cost)
	assert.True(t, res.Difference.Equal(decimal.RequireFromString("-0.75")))
	assert.True(t, res.MonetaryImpact.Equal(decimal.RequireFromString("-3150")))
	assert.Equal(t, reconcile.ClassShortage, res.Classification)
}

// TestCalculate_Idempotente verifica que la función es pura: dos llamadas con
// el mismo input producen exactamente el mismo output.
func TestCalculate_Idempotente(t *testing.T) {
	r1 := reconcile.Calculate(d(50), d(42), d(1000))
	r2 := reconcile.Calculate(d(50), d(42), d(1000))
	assert.True(t, r1.Difference.Equal(r2.Difference))
	assert.True(t, r1.MonetaryImpact.Equal(r2.MonetaryImpact))
	assert.Equal(t, r1.Classification, r2.Classification)
}

// TestAggregate_TotalesSesion reproduce el escenario de totales de sesión:
// un faltante de 8 (valor 8000), un sobrante de 5 (valor 5000) y un match.
func TestAggregate_TotalesSesion(t *testing.T) {
	results := []reconcile.Result{
		reconcile.Calculate(d(50), d(42), d(1000)), // faltante
		reconcile.Calculate(d(50), d(55), d(1000)), // sobrante
		reconcile.Calculate(d(50), d(50), d(1000)), // match
	}

	totals := reconcile.Aggregate(results)

	require.True(t, totals.ShortageUnits.Equal(d(8)), "unidades faltantes: %s", totals.ShortageUnits)
	require.True(t, totals.SurplusUnits.Equal(d(5)), "unidades sobrantes: %s", totals.SurplusUnits)
	require.True(t, totals.ShortageValue.Equal(d(8000)), "valor faltante: %s", totals.ShortageValue)
	require.True(t, totals.SurplusValue.Equal(d(5000)), "valor sobrante: %s", totals.SurplusValue)
	require.True(t, totals.NetValue.Equal(d(-3000)), "valor neto = sobrante - faltante: %s", totals.NetValue)
	assert.Equal(t, 2, totals.ItemsWithDifference, "solo las líneas con diferencia cuentan")
}

// TestAggregate_ValoresAbsolutos verifica que los totales de faltante son
// siempre >= 0 aunque las diferencias origen sean negativas.
func TestAggregate_ValoresAbsolutos(t *testing.T) {
	results := []reconcile.Result{
		reconcile.Calculate(d(100), d(60), d(500)),
		reconcile.Calculate(d(20), d(5), d(250)),
	}
	totals := reconcile.Aggregate(results)

	assert.False(t, totals.ShortageUnits.IsNegative(), "unidades faltantes nunca negativas")
	assert.False(t, totals.ShortageValue.IsNegative(), "valor faltante nunca negativo")
	assert.True(t, totals.ShortageUnits.Equal(d(55)))
	assert.True(t, totals.ShortageValue.Equal(d(23750)))
	assert.True(t, totals.SurplusUnits.IsZero())
	assert.True(t, totals.NetValue.Equal(d(-23750)))
}

// TestAggregate_Vacio verifica que una sesión sin líneas produce totales en cero.
func TestAggregate_Vacio(t *testing.T) {
	totals := reconcile.Aggregate(nil)
	assert.True(t, totals.ShortageUnits.IsZero())
	assert.True(t, totals.SurplusUnits.IsZero())
	assert.True(t, totals.NetValue.IsZero())
	assert.Zero(t, totals.ItemsWithDifference)
}

// TestAggregate_Recomputable verifica que agregar dos veces la misma entrada
// produce los mismos totales (se recalcula en cada cambio de la sesión).
func TestAggregate_Recomputable(t *testing.T) {
	results := []reconcile.Result{
		reconcile.Calculate(d(10), d(7), d(100)),
		reconcile.Calculate(d(4), d(9), d(100)),
	}
	t1 := reconcile.Aggregate(results)
	t2 := reconcile.Aggregate(results)
	assert.True(t, t1.NetValue.Equal(t2.NetValue))
	assert.Equal(t, t1.ItemsWithDifference, t2.ItemsWithDifference)
}
