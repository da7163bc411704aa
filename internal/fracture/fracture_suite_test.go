package fracture_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/fracture"
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
)

func TestFractureSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "fracture suite")
}

func squarePolygon(x0, y0, side float64) geo.Polygon {
	p, err := geo.NewPolygon([]geo.Point{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("YieldCurve", func() {
	var yc *fracture.YieldCurve

	BeforeEach(func() {
		yc = fracture.NewHibler(5e5, -1)
	})

	Describe("scaling with fleet statistics", func() {
		It("grows the enclosed area as mean height increases", func() {
			yc.UpdateCriteria(1.0, 1.0)
			small := yc.Area()
			yc.UpdateCriteria(1.0, 4.0)
			large := yc.Area()
			Expect(large).To(BeNumerically(">", small))
		})

		It("shrinks toward zero as area fraction drops to zero with positive C", func() {
			curve := fracture.NewHibler(5e5, 1)
			curve.UpdateCriteria(1.0, 1.0)
			full := curve.Area()
			curve.UpdateCriteria(0.0, 1.0)
			empty := curve.Area()
			Expect(empty).To(BeNumerically("<", full))
		})
	})

	Describe("Contains", func() {
		BeforeEach(func() {
			yc.UpdateCriteria(1.0, 1.0)
		})

		It("reports the origin as inside a curve with positive area", func() {
			Expect(yc.Contains(0, 0)).To(BeTrue())
		})

		It("reports a far-away stress state as outside", func() {
			_, maxX, _, maxY := yc.Extrema()
			Expect(yc.Contains(maxX*100, maxY*100)).To(BeFalse())
		})
	})

	Describe("MeanFleetStats", func() {
		It("ignores ghost and inactive floes when averaging", func() {
			factory := floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(1))
			real, err := factory.FromPolygon(squarePolygon(0, 0, 100), 2.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())

			ghost, err := factory.FromPolygon(squarePolygon(200, 0, 100), 8.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			ghost.GhostID = 1

			inactive, err := factory.FromPolygon(squarePolygon(400, 0, 100), 8.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			inactive.Status = floe.Remove

			_, heightMean := fracture.MeanFleetStats([]*floe.Floe{real, ghost, inactive}, 1e6)
			Expect(heightMean).To(BeNumerically("~", 2.0, 1e-9))
		})

		It("returns zero stats for an all-ghost fleet", func() {
			factory := floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(1))
			ghost, err := factory.FromPolygon(squarePolygon(0, 0, 100), 2.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			ghost.GhostID = 1

			areaFraction, heightMean := fracture.MeanFleetStats([]*floe.Floe{ghost}, 1e6)
			Expect(areaFraction).To(BeZero())
			Expect(heightMean).To(BeZero())
		})
	})
})

var _ = Describe("Engine", func() {
	var factory *floe.Factory

	BeforeEach(func() {
		factory = floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(6))
	})

	Context("when no floe is stressed past the yield curve", func() {
		It("returns the fleet unchanged", func() {
			yc := fracture.NewHibler(5e5, -1)
			engine := fracture.New(yc, 10, false, floe.DefaultVoronoiOptions(3), factory, 1e12, rng.New(6))

			quiet, err := factory.FromPolygon(squarePolygon(0, 0, 1e4), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())

			result := engine.Step([]*floe.Floe{quiet})
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal(quiet.ID))
		})
	})

	Context("when a floe is stressed past the yield curve and deformation is disabled", func() {
		It("replaces it with Voronoi-split children carrying its lineage", func() {
			yc := fracture.NewHibler(5e5, -1)
			engine := fracture.New(yc, 10, false, floe.DefaultVoronoiOptions(3), factory, 1e12, rng.New(6))

			stressed, err := factory.FromPolygon(squarePolygon(0, 0, 1e4), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			stressed.StressAccum = floe.Mat2{Xx: -1e9, Yy: -1e9}

			result := engine.Step([]*floe.Floe{stressed})
			Expect(len(result)).To(BeNumerically(">=", 1))
			for _, child := range result {
				if child.ID == stressed.ID {
					continue
				}
				Expect(child.ParentIDs).To(ContainElement(stressed.ID))
			}
		})
	})

	Context("when a candidate floe is below the minimum fracturable area", func() {
		It("never selects it as a fracture candidate", func() {
			yc := fracture.NewHibler(5e5, -1)
			yc.UpdateCriteria(1.0, 0.5)
			engine := fracture.New(yc, 1000, false, floe.DefaultVoronoiOptions(3), factory, 1e12, rng.New(6))

			tooSmall, err := factory.FromPolygon(squarePolygon(0, 0, 5), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			tooSmall.StressAccum = floe.Mat2{Xx: -1e9, Yy: -1e9}

			result := engine.Step([]*floe.Floe{tooSmall})
			Expect(result).To(HaveLen(1))
			Expect(result[0].ID).To(Equal(tooSmall.ID))
		})
	})
})
