package motor_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stepsim/internal/motor"
)

var _ = Describe("State", func() {
	var s *motor.State

	BeforeEach(func() {
		var err error
		s, err = motor.NewState(10, motor.Forward, motor.Full)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewState", func() {
		It("starts stopped at the origin", func() {
			Expect(s.Running).To(BeFalse())
			Expect(s.Position).To(BeZero())
			Expect(s.Target).To(BeZero())
		})

		DescribeTable("rejects bad settings with ErrConfiguration",
			func(speed int, dir motor.Direction, res motor.Resolution) {
				_, err := motor.NewState(speed, dir, res)
				Expect(errors.Is(err, motor.ErrConfiguration)).To(BeTrue())
			},
			Entry("zero speed", 0, motor.Forward, motor.Full),
			Entry("negative speed", -4, motor.Forward, motor.Full),
			Entry("speed above max", 101, motor.Forward, motor.Full),
			Entry("no direction", 10, motor.Direction(0), motor.Full),
			Entry("third step", 10, motor.Forward, motor.Resolution(1.0/3)),
		)
	})

	Describe("running state machine", func() {
		DescribeTable("ends on the last start/stop in the batch",
			func(cmds []motor.Command, want bool) {
				s.Apply(cmds...)
				Expect(s.Running).To(Equal(want))
			},
			Entry("single start", []motor.Command{motor.Start()}, true),
			Entry("start is idempotent", []motor.Command{motor.Start(), motor.Start()}, true),
			Entry("stop while stopped", []motor.Command{motor.Stop()}, false),
			Entry("stop start stop", []motor.Command{motor.Stop(), motor.Start(), motor.Stop()}, false),
			Entry("interleaved with targets", []motor.Command{motor.Start(), motor.MoveTo(4), motor.Stop(), motor.MoveTo(9), motor.Start()}, true),
		)
	})

	Describe("MoveTo", func() {
		It("only records the target", func() {
			s.Apply(motor.MoveTo(50))
			Expect(s.Target).To(Equal(50))
			Expect(s.Position).To(BeZero())
			Expect(s.Running).To(BeFalse())
		})

		It("does not stop motion at the target by default", func() {
			s.Apply(motor.MoveTo(2), motor.Start())
			for i := 0; i < 5; i++ {
				Expect(s.Step()).To(BeFalse())
			}
			Expect(s.Position).To(Equal(5.0))
			Expect(s.Running).To(BeTrue())
		})
	})

	Describe("Step", func() {
		DescribeTable("accumulates k * resolution * direction",
			func(res motor.Resolution, dir motor.Direction, k int) {
				s.Apply(motor.SetResolution(res), motor.SetDirection(dir))
				for i := 0; i < k; i++ {
					s.Step()
				}
				Expect(s.Position).To(BeNumerically("~", float64(k)*float64(res)*float64(dir), 1e-9))
			},
			Entry("full forward", motor.Full, motor.Forward, 37),
			Entry("half backward", motor.Half, motor.Backward, 21),
			Entry("quarter forward", motor.Quarter, motor.Forward, 400),
			Entry("eighth backward", motor.Eighth, motor.Backward, 1000),
		)

		Context("with HaltAtTarget", func() {
			BeforeEach(func() {
				s.HaltAtTarget = true
				s.Apply(motor.Start())
			})

			It("stops exactly on the target", func() {
				s.Apply(motor.MoveTo(3))
				for s.Running {
					s.Step()
				}
				Expect(s.Position).To(Equal(3.0))
			})

			It("lands on a target between two steps", func() {
				s.Apply(motor.SetResolution(motor.Full), motor.SetDirection(motor.Backward), motor.MoveTo(-2))
				s.Position = 0.5
				s.Step()
				s.Step()
				Expect(s.Running).To(BeTrue())
				Expect(s.Position).To(Equal(-1.5))
				Expect(s.Step()).To(BeTrue())
				Expect(s.Position).To(Equal(-2.0))
				Expect(s.Running).To(BeFalse())
			})

			It("keeps moving when heading away from the target", func() {
				s.Apply(motor.MoveTo(-5))
				s.Step()
				s.Step()
				Expect(s.Position).To(Equal(2.0))
				Expect(s.Running).To(BeTrue())
			})

			It("leaves the target when started on it", func() {
				Expect(s.Step()).To(BeFalse())
				Expect(s.Running).To(BeTrue())
				Expect(s.Position).To(Equal(1.0))
			})

			It("leaves a reached target after reversing", func() {
				s.Apply(motor.MoveTo(2))
				for s.Running {
					s.Step()
				}
				s.Apply(motor.SetDirection(motor.Backward), motor.Start())
				Expect(s.Step()).To(BeFalse())
				Expect(s.Position).To(Equal(1.0))
				Expect(s.Running).To(BeTrue())
			})

			It("leaves a reached target in the same direction", func() {
				s.Apply(motor.MoveTo(2))
				for s.Running {
					s.Step()
				}
				s.Apply(motor.Start())
				s.Step()
				Expect(s.Position).To(Equal(3.0))
				Expect(s.Running).To(BeTrue())
			})
		})
	})

	Describe("Reset", func() {
		It("clears spatial state and keeps the rest", func() {
			s.Apply(motor.SetSpeed(42), motor.SetDirection(motor.Backward), motor.SetResolution(motor.Quarter), motor.MoveTo(7), motor.Start())
			s.Step()
			s.Apply(motor.Reset())

			Expect(s.Position).To(BeZero())
			Expect(s.Target).To(BeZero())
			Expect(s.Speed).To(Equal(42))
			Expect(s.Direction).To(Equal(motor.Backward))
			Expect(s.Resolution).To(Equal(motor.Quarter))
			Expect(s.Running).To(BeTrue())
		})
	})
})
