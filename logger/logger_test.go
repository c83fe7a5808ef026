package logger_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/relloyd/lakepipe/logger"
)

var _ = Describe("Logger", func() {
	log := logger.NewLogger("test-service", "debug", true)

	decode := func(b *bytes.Buffer) map[string]interface{} {
		var actual map[string]interface{}
		Expect(json.Unmarshal(b.Bytes(), &actual)).To(Succeed())
		return actual
	}

	It("Should have `test-service` as service name", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Info("Testing")
		Expect(decode(logOutput)["service"]).To(Equal("test-service"))
	})

	It("Should have info as log level", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Info("Testing")
		Expect(decode(logOutput)["level"]).To(Equal("info"))
	})

	It("Should have warning as log level", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Warn("Testing")
		Expect(decode(logOutput)["level"]).To(Equal("warning"))
	})

	It("Should have error as log level with a stack trace", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Error("Testing")
		actual := decode(logOutput)
		Expect(actual["level"]).To(Equal("error"))
		Expect(actual["stackTrace"]).ToNot(BeNil())
	})

	It("Should have `Testing` as msg", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.Info("Testing")
		Expect(decode(logOutput)["msg"]).To(Equal("Testing"))
	})

	It("Should carry fields added with WithField", func() {
		logOutput := bytes.NewBufferString("")
		log.SetOutput(logOutput)
		log.WithField("table", "SALES.ORDERS").Info("Testing")
		actual := decode(logOutput)
		Expect(actual["table"]).To(Equal("SALES.ORDERS"))
		Expect(actual["service"]).To(Equal("test-service"))
	})

	It("Should not log below the configured level", func() {
		quiet := logger.NewLogger("test-service", "warn", false)
		logOutput := bytes.NewBufferString("")
		quiet.SetOutput(logOutput)
		quiet.Info("Testing")
		Expect(logOutput.Len()).To(Equal(0))
	})

	It("Should reject an unknown level", func() {
		_, err := logger.NewLoggerWithError("test-service", "chatty", false)
		Expect(err).To(HaveOccurred())
	})
})
