package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/akashipov/feeservice/internal/fee"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

var entities = []fee.PaymentEntity{
	{ID: "2203454", Issuer: "GTBANK", Brand: "MASTERCARD", Number: "530191******2903", SixID: "530191", Type: "CREDIT-CARD", Country: "NG"},
	{ID: "2203455", Issuer: "ACCESS", Brand: "VISA", Number: "412345******1234", SixID: "412345", Type: "CREDIT-CARD", Country: "US"},
	{ID: "2203456", Issuer: "MTN", Number: "0803*****12", SixID: "080312", Type: "USSD", Country: "NG"},
	{ID: "2203457", Issuer: "UBA", Number: "01234*****", SixID: "012345", Type: "BANK-ACCOUNT", Country: "NG"},
}

func main() {
	url := flag.String("u", "http://localhost:8000", "Server base url")
	n := flag.Int("r", 10000, "Number of requests")
	c := flag.Int("c", 64, "Number of concurrent workers")
	flag.Parse()

	jobs := make(chan int)
	var mu sync.Mutex
	statuses := make(map[int]int)
	errs := 0
	var w sync.WaitGroup
	start := time.Now()
	for i := 0; i < *c; i++ {
		w.Add(1)
		go func() {
			defer w.Done()
			cl := resty.New().SetBaseURL(*url)
			for range jobs {
				req := fee.TransactionRequest{
					Amount:          decimal.NewFromInt(int64(rand.Intn(100000) + 1)),
					Currency:        "NGN",
					CurrencyCountry: "NG",
					Customer:        fee.Customer{BearsFee: rand.Intn(2) == 0},
					PaymentEntity:   entities[rand.Intn(len(entities))],
				}
				resp, err := cl.R().SetBody(req).Post("/compute-transaction-fee")
				mu.Lock()
				if err != nil {
					errs++
				} else {
					statuses[resp.StatusCode()]++
				}
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < *n; i++ {
		jobs <- i
	}
	close(jobs)
	w.Wait()
	elapsed := time.Since(start)
	fmt.Printf("Requests: %d in %s (%.0f rps)\n", *n, elapsed, float64(*n)/elapsed.Seconds())
	for status, count := range statuses {
		fmt.Printf("Status %d: %d\n", status, count)
	}
	fmt.Printf("Errors: %d\n", errs)
}
