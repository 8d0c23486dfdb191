package fuzzy_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fuzzytherm/internal/fuzzy"
)

// thermalVariables builds the stock controller fuzzy sets.
func thermalVariables() (*fuzzy.Variable, *fuzzy.Variable, *fuzzy.OutputVariable) {
	errVar := fuzzy.NewVariable("error")
	Expect(errVar.Define(fuzzy.Negative, -1000, -999, -2, 0)).To(Succeed())
	Expect(errVar.Define(fuzzy.Zero, -2, 0, 2)).To(Succeed())
	Expect(errVar.Define(fuzzy.Positive, 0, 2, 999, 1000)).To(Succeed())

	rateVar := fuzzy.NewVariable("error_rate")
	Expect(rateVar.Define(fuzzy.Negative, -1000, -999, -5, 0)).To(Succeed())
	Expect(rateVar.Define(fuzzy.Zero, -50, 0, 5)).To(Succeed())
	Expect(rateVar.Define(fuzzy.Positive, 0, 5, 999, 1000)).To(Succeed())

	outVar := fuzzy.NewOutputVariable("output")
	Expect(outVar.Define(fuzzy.Cooler, -1000, -999, -50, 0)).To(Succeed())
	Expect(outVar.Define(fuzzy.NoChange, -50, 0, 50)).To(Succeed())
	Expect(outVar.Define(fuzzy.Heater, 0, 50, 999, 1000)).To(Succeed())

	return errVar, rateVar, outVar
}

var _ = Describe("Engine", func() {
	var eng *fuzzy.Engine

	BeforeEach(func() {
		errVar, rateVar, outVar := thermalVariables()
		var err error
		eng, err = fuzzy.NewEngine(errVar, rateVar, outVar, fuzzy.DefaultRules(), fuzzy.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	It("samples the universe with endpoints included", func() {
		u := eng.Universe()
		Expect(u).To(HaveLen(200))
		Expect(u[0]).To(Equal(-100.0))
		Expect(u[len(u)-1]).To(Equal(100.0))
	})

	It("precomputes the consequent curves", func() {
		heater := eng.Curve(fuzzy.Heater)
		Expect(heater).To(HaveLen(200))
		Expect(heater[0]).To(BeZero())
		Expect(heater[len(heater)-1]).To(Equal(1.0))

		cooler := eng.Curve(fuzzy.Cooler)
		Expect(cooler[0]).To(Equal(1.0))
		Expect(cooler[len(cooler)-1]).To(BeZero())
	})

	It("defuzzifies zero error and zero rate to a zero centroid", func() {
		res := eng.Infer(0, 0)
		Expect(res.Degenerate).To(BeFalse())
		Expect(res.Crisp).To(BeNumerically("~", 0, 1e-9))
	})

	It("drives a positive crisp output for a large positive error", func() {
		res := eng.Infer(50, 0)
		Expect(res.Degenerate).To(BeFalse())
		Expect(res.Crisp).To(BeNumerically(">", 0))
	})

	It("drives a negative crisp output for a large negative error", func() {
		res := eng.Infer(-50, 0)
		Expect(res.Degenerate).To(BeFalse())
		Expect(res.Crisp).To(BeNumerically("<", 0))
	})

	It("ignores the rate term when the error is saturated", func() {
		// The positive-error row always fires heater, the negative-error
		// row always fires cooler; the rate only scales firing strength.
		for _, rate := range []float64{-40, 0, 40} {
			Expect(eng.Infer(50, rate).Crisp).To(BeNumerically(">", 0))
			Expect(eng.Infer(-50, rate).Crisp).To(BeNumerically("<", 0))
		}
	})

	It("discriminates by rate on the zero-error row", func() {
		// Error growing (rate negative): preempt with heat. Error
		// shrinking (rate positive): back off with cooling.
		Expect(eng.Infer(0, -10).Crisp).To(BeNumerically(">", 0))
		Expect(eng.Infer(0, 10).Crisp).To(BeNumerically("<", 0))
	})

	It("keeps the aggregation within membership bounds", func() {
		res := eng.Infer(25, -25)
		Expect(res.Aggregation).To(HaveLen(200))
		for _, v := range res.Aggregation {
			Expect(v).To(BeNumerically(">=", 0))
			Expect(v).To(BeNumerically("<=", 1))
		}
	})

	It("rounds the crisp output to two decimals", func() {
		res := eng.Infer(25, -25)
		Expect(res.Crisp).To(Equal(math.Round(res.Crisp*100) / 100))
	})

	Describe("degenerate aggregation", func() {
		It("is reported instead of dividing by zero", func() {
			errVar := fuzzy.NewVariable("error")
			Expect(errVar.Define(fuzzy.Negative, -1, -0.5, 0)).To(Succeed())
			Expect(errVar.Define(fuzzy.Zero, -0.5, 0, 0.5)).To(Succeed())
			Expect(errVar.Define(fuzzy.Positive, 0, 0.5, 1)).To(Succeed())

			rateVar := fuzzy.NewVariable("error_rate")
			Expect(rateVar.Define(fuzzy.Negative, -1, -0.5, 0)).To(Succeed())
			Expect(rateVar.Define(fuzzy.Zero, -0.5, 0, 0.5)).To(Succeed())
			Expect(rateVar.Define(fuzzy.Positive, 0, 0.5, 1)).To(Succeed())

			_, _, outVar := thermalVariables()

			narrow, err := fuzzy.NewEngine(errVar, rateVar, outVar, fuzzy.DefaultRules(), fuzzy.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			res := narrow.Infer(500, 0)
			Expect(res.Degenerate).To(BeTrue())
			Expect(res.Crisp).To(BeZero())
		})
	})

	Describe("construction", func() {
		It("rejects incomplete variables", func() {
			errVar := fuzzy.NewVariable("error")
			Expect(errVar.Define(fuzzy.Zero, -2, 0, 2)).To(Succeed())
			_, rateVar, outVar := thermalVariables()

			_, err := fuzzy.NewEngine(errVar, rateVar, outVar, fuzzy.DefaultRules(), fuzzy.DefaultConfig())
			Expect(err).To(MatchError(fuzzy.ErrIncompleteVariable))
		})

		It("rejects an empty universe", func() {
			errVar, rateVar, outVar := thermalVariables()
			cfg := fuzzy.Config{UniverseMin: 10, UniverseMax: 10, Samples: 200}
			_, err := fuzzy.NewEngine(errVar, rateVar, outVar, fuzzy.DefaultRules(), cfg)
			Expect(err).To(MatchError(fuzzy.ErrUniverseBounds))
		})
	})
})
