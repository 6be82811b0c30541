package env_test

import (
	"context"
	"os"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/luma/vlcrc/internal/env"
)

var _ = Describe("env", func() {
	Describe("LoadConfig()", func() {
		AfterEach(func() {
			os.Unsetenv("VLCRC_PORT")
			os.Unsetenv("VLCRC_TIMEOUT")
		})

		It("has defaults", func() {
			config, err := env.LoadConfig(context.Background())
			Expect(err).To(Succeed())

			Expect(config.Address).To(Equal("127.0.0.1"))
			Expect(config.Port).To(Equal(50000))
			Expect(config.Timeout).To(Equal(100 * time.Millisecond))
			Expect(config.ConnectTimeout).To(Equal(time.Second))
			Expect(config.LogLevel).To(Equal("warn"))
		})

		It("reads the environment", func() {
			Expect(os.Setenv("VLCRC_PORT", "4212")).To(Succeed())
			Expect(os.Setenv("VLCRC_TIMEOUT", "250ms")).To(Succeed())

			config, err := env.LoadConfig(context.Background())
			Expect(err).To(Succeed())

			Expect(config.Port).To(Equal(4212))
			Expect(config.Timeout).To(Equal(250 * time.Millisecond))
		})
	})

	Describe("MakeLogger()", func() {
		It("builds json and console loggers", func() {
			_, err := env.MakeLogger("info", "json")
			Expect(err).To(Succeed())

			_, err = env.MakeLogger("debug", "console")
			Expect(err).To(Succeed())
		})

		It("rejects unknown levels and formats", func() {
			_, err := env.MakeLogger("loud", "json")
			Expect(err).To(HaveOccurred())

			_, err = env.MakeLogger("info", "xml")
			Expect(err).To(HaveOccurred())
		})
	})
})
