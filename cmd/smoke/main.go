// Smoke drives the payment endpoint of a running posd with the gateway's
// sandbox test card. Sequential on purpose: the terminal is a single-operator
// design and the sandbox throttles bursts.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/dwgops/pospay/internal/domain"
)

// Well-known Luhn-valid sandbox card.
const testCard = "4532015112830366"

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "posd base URL")
	runs := flag.Int("n", 5, "number of test charges")
	amount := flag.String("amount", "$1.00", "charge amount")
	customer := flag.String("customer", "00000 Smoke Test", "customer label")
	flag.Parse()

	client := &http.Client{Timeout: 60 * time.Second}
	var total time.Duration
	ok := 0

	for i := 0; i < *runs; i++ {
		req := domain.PaymentRequest{
			CardNumber:    testCard,
			ExpiryMonth:   "12",
			ExpiryYear:    "30",
			CVC:           "123",
			AmountText:    *amount,
			CustomerLabel: *customer,
			Description:   fmt.Sprintf("smoke run %d", i),
		}
		body, _ := json.Marshal(req)

		start := time.Now()
		resp, err := client.Post(*baseURL+"/api/v1/payments", "application/json", bytes.NewReader(body))
		elapsed := time.Since(start)
		if err != nil {
			log.Printf("run %d: request failed: %v", i, err)
			continue
		}

		var outcome domain.PaymentOutcome
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err := json.Unmarshal(respBody, &outcome); err != nil {
			log.Printf("run %d: bad response (%d): %s", i, resp.StatusCode, respBody)
			continue
		}

		total += elapsed
		if outcome.State == domain.StateSuccess {
			ok++
		}
		log.Printf("run %d: %s in %v (auth %s)", i, outcome.State, elapsed.Round(time.Millisecond), outcome.AuthCode)
	}

	if *runs > 0 {
		log.Printf("done: %d/%d succeeded, avg latency %v", ok, *runs, (total / time.Duration(*runs)).Round(time.Millisecond))
	}
}
