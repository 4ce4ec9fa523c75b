package motor_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stepsim/internal/motor"
)

var _ = Describe("Command", func() {
	DescribeTable("Validate accepts",
		func(c motor.Command) {
			Expect(c.Validate()).To(Succeed())
		},
		Entry("start", motor.Start()),
		Entry("stop", motor.Stop()),
		Entry("reset", motor.Reset()),
		Entry("negative target", motor.MoveTo(-300)),
		Entry("min speed", motor.SetSpeed(motor.MinSpeed)),
		Entry("max speed", motor.SetSpeed(motor.MaxSpeed)),
		Entry("backward", motor.SetDirection(motor.Backward)),
		Entry("eighth", motor.SetResolution(motor.Eighth)),
	)

	DescribeTable("Validate rejects with ErrInvalidArgument",
		func(c motor.Command) {
			err := c.Validate()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, motor.ErrInvalidArgument)).To(BeTrue())
		},
		Entry("zero speed", motor.SetSpeed(0)),
		Entry("speed too high", motor.SetSpeed(motor.MaxSpeed+1)),
		Entry("zero direction", motor.SetDirection(0)),
		Entry("bad resolution", motor.SetResolution(0.3)),
		Entry("unknown type", motor.Command{Type: "spin"}),
	)

	Describe("ParseTarget", func() {
		It("parses integers with surrounding space", func() {
			v, err := motor.ParseTarget(" -125 ")
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(-125))
		})

		DescribeTable("rejects non-integer or out of range input",
			func(in string) {
				_, err := motor.ParseTarget(in)
				Expect(errors.Is(err, motor.ErrInvalidArgument)).To(BeTrue())
			},
			Entry("empty", ""),
			Entry("word", "fifty"),
			Entry("fraction", "12.5"),
			Entry("too large", "4294967296"),
		)
	})

	Describe("parsers", func() {
		It("parses resolutions by name, fraction and decimal", func() {
			for in, want := range map[string]motor.Resolution{
				"full": motor.Full, "1/2": motor.Half, "0.25": motor.Quarter, "Eighth": motor.Eighth,
			} {
				got, err := motor.ParseResolution(in)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
			}
			_, err := motor.ParseResolution("1/3")
			Expect(errors.Is(err, motor.ErrInvalidArgument)).To(BeTrue())
		})

		It("parses directions", func() {
			d, err := motor.ParseDirection("CCW")
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(motor.Backward))
			_, err = motor.ParseDirection("up")
			Expect(err).To(HaveOccurred())
		})

		It("cycles resolutions from full to eighth and back", func() {
			r := motor.Full
			seen := []motor.Resolution{}
			for i := 0; i < 4; i++ {
				r = r.Next()
				seen = append(seen, r)
			}
			Expect(seen).To(Equal([]motor.Resolution{motor.Half, motor.Quarter, motor.Eighth, motor.Full}))
		})
	})
})
