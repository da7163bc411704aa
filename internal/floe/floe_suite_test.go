package floe_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/subzero/internal/floe"
	"github.com/san-kum/subzero/internal/geo"
	"github.com/san-kum/subzero/internal/rng"
)

func TestFloeSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "floe suite")
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

var _ = Describe("Floe", func() {
	var factory *floe.Factory

	BeforeEach(func() {
		factory = floe.NewFactory(920, 5, 4, floe.SubfloeSubGrid, floe.StressRaw, rng.New(11))
	})

	Describe("ghost identity", func() {
		It("treats a freshly built floe as real", func() {
			fl, err := factory.FromPolygon(squarePolygon(0, 0, 10), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(fl.IsGhost()).To(BeFalse())
		})

		It("treats a floe with a nonzero GhostID as a ghost", func() {
			fl, err := factory.FromPolygon(squarePolygon(0, 0, 10), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			fl.GhostID = 3
			Expect(fl.IsGhost()).To(BeTrue())
		})
	})

	Describe("the interaction table", func() {
		var fl *floe.Floe

		BeforeEach(func() {
			var err error
			fl, err = factory.FromPolygon(squarePolygon(0, 0, 10), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts empty", func() {
			Expect(fl.Interactions).To(BeEmpty())
			Expect(fl.NumInters).To(Equal(0))
			Expect(fl.OverArea).To(BeZero())
		})

		It("accumulates overlap area as rows are added", func() {
			fl.AddInteraction(floe.InteractionRow{OtherID: 7, Overlap: 2.5})
			fl.AddInteraction(floe.InteractionRow{OtherID: 8, Overlap: 1.5})
			Expect(fl.NumInters).To(Equal(2))
			Expect(fl.OverArea).To(BeNumerically("~", 4.0, 1e-9))
		})

		It("clears rows and the overlap total on reset", func() {
			fl.AddInteraction(floe.InteractionRow{OtherID: 7, Overlap: 2.5})
			fl.ResetInteractions()
			Expect(fl.Interactions).To(BeEmpty())
			Expect(fl.NumInters).To(Equal(0))
			Expect(fl.OverArea).To(BeZero())
		})

		It("zeroes collision force and torque totals independently of interactions", func() {
			fl.CollisionFx, fl.CollisionFy, fl.CollisionTrq = 1, 2, 3
			fl.AddInteraction(floe.InteractionRow{OtherID: 7, Overlap: 2.5})
			fl.ResetCollisionForces()
			Expect(fl.CollisionFx).To(BeZero())
			Expect(fl.CollisionFy).To(BeZero())
			Expect(fl.CollisionTrq).To(BeZero())
			Expect(fl.Interactions).NotTo(BeEmpty())
		})
	})

	Describe("cloning", func() {
		It("produces a floe independent of the original's slices", func() {
			fl, err := factory.FromPolygon(squarePolygon(0, 0, 10), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			fl.AddInteraction(floe.InteractionRow{OtherID: 1})

			clone := fl.Clone()
			clone.AddInteraction(floe.InteractionRow{OtherID: 2})
			clone.U = 42

			Expect(fl.NumInters).To(Equal(1))
			Expect(fl.U).NotTo(Equal(42.0))
		})

		It("copies the stress history ring rather than sharing it", func() {
			fl, err := factory.FromPolygon(squarePolygon(0, 0, 10), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			fl.StressHistory.Push(floe.Mat2{Xx: 1})

			clone := fl.Clone()
			clone.StressHistory.Push(floe.Mat2{Xx: 2})

			Expect(fl.StressHistory.Count()).To(Equal(1))
			Expect(clone.StressHistory.Count()).To(Equal(2))
		})
	})

	Describe("translation", func() {
		It("shifts the centroid by exactly the given offset", func() {
			fl, err := factory.FromPolygon(squarePolygon(0, 0, 10), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			moved := fl.Translated(geo.Point{X: 5, Y: -3})
			Expect(moved.Centroid.X).To(BeNumerically("~", fl.Centroid.X+5, 1e-9))
			Expect(moved.Centroid.Y).To(BeNumerically("~", fl.Centroid.Y-3, 1e-9))
		})

		It("leaves the original floe's polygon untouched", func() {
			fl, err := factory.FromPolygon(squarePolygon(0, 0, 10), 1.0, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())
			originalCentroid := fl.Centroid
			_ = fl.Translated(geo.Point{X: 100, Y: 100})
			Expect(fl.Centroid).To(Equal(originalCentroid))
		})
	})
})

var _ = Describe("Mat2", func() {
	Describe("Eigenvalues", func() {
		It("returns equal eigenvalues for an isotropic tensor", func() {
			m := floe.Mat2{Xx: 5, Yy: 5}
			l1, l2 := m.Eigenvalues()
			Expect(l1).To(BeNumerically("~", 5, 1e-9))
			Expect(l2).To(BeNumerically("~", 5, 1e-9))
		})

		It("never produces a negative discriminant for a degenerate tensor", func() {
			m := floe.Mat2{Xx: 1, Xy: 10, Yx: 10, Yy: 1}
			l1, l2 := m.Eigenvalues()
			Expect(l1).NotTo(BeNumerically("<", l2))
		})
	})

	Describe("arithmetic", func() {
		It("adds componentwise", func() {
			a := floe.Mat2{Xx: 1, Xy: 2, Yx: 3, Yy: 4}
			b := floe.Mat2{Xx: 10, Xy: 20, Yx: 30, Yy: 40}
			Expect(a.Add(b)).To(Equal(floe.Mat2{Xx: 11, Xy: 22, Yx: 33, Yy: 44}))
		})

		It("scales every component by the same factor", func() {
			a := floe.Mat2{Xx: 1, Xy: 2, Yx: 3, Yy: 4}
			Expect(a.Scale(2)).To(Equal(floe.Mat2{Xx: 2, Xy: 4, Yx: 6, Yy: 8}))
		})
	})
})
