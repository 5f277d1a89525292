// Command callback is a local sink for relay answers: it accepts the
// outbound POST the consumer sends to a callback URL and prints the message.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	addr := "localhost:8080"
	if v := os.Getenv("CALLBACK_ADDR"); v != "" {
		addr = v
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
			return
		}
		fmt.Println(body.Message)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	log.Printf("callback sink listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
