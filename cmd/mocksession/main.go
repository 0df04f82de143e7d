// Command mocksession runs a scripted recognition session against the
// mock engine and prints every shaped record. It needs no cloud
// credentials or brokers; useful for demos and smoke checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"speech-result-gateway/internal/engine/mock"
	"speech-result-gateway/internal/result"
)

type printingCallback struct {
	verbose bool
}

func (p *printingCallback) OnResult(rec *result.Record) {
	fmt.Println(rec)
	if p.verbose {
		fmt.Printf("  durationMs=%d offsetMs=%d interim=%v\n",
			rec.DurationMillis(), rec.OffsetMillis(),
			rec.Properties().GetBool("interim"))
		if payload := rec.JSON(); payload != "" {
			fmt.Printf("  payload=%s\n", payload)
		}
	}
}

func (p *printingCallback) OnError(err error) {
	fmt.Fprintf(os.Stderr, "engine error: %v\n", err)
}

func main() {
	utterances := flag.Int("utterances", 3, "number of scripted utterances to run")
	verbose := flag.Bool("v", false, "print record timing and raw payloads")
	flag.Parse()

	ctx := context.Background()
	cb := &printingCallback{verbose: *verbose}

	for i := 0; i < *utterances; i++ {
		eng := mock.New()
		if err := eng.Start(ctx, cb); err != nil {
			fmt.Fprintf(os.Stderr, "start failed: %v\n", err)
			os.Exit(1)
		}

		// One frame per scripted interim, then one more for the final.
		for f := 0; f < 8; f++ {
			if err := eng.SendAudio(ctx, make([]byte, 320)); err != nil {
				fmt.Fprintf(os.Stderr, "send failed: %v\n", err)
				os.Exit(1)
			}
		}
		if err := eng.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
	}
}
