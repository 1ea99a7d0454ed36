package main

import (
	"context"
	"fmt"
	"os"

	"campusride/pkg/idcard"
)

func main() {
	p := "uploads/cards/sample.jpg"
	if len(os.Args) > 1 {
		p = os.Args[1]
	}
	imageBytes, err := os.ReadFile(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", p, err)
		os.Exit(1)
	}
	pipe := idcard.NewDefault(os.Getenv("OCR_LANG"))
	scan, err := pipe.Extract(context.Background(), imageBytes)
	fmt.Printf("Extract err=%v\n", err)
	fmt.Printf("valid=%v name=%q reg_no=%q institution=%q conf=%.3f reason=%q\n",
		scan.Valid, scan.Name, scan.RegNo, scan.Institution, scan.Confidence, scan.Reason)
	if len(os.Args) > 2 {
		m := idcard.Match(os.Args[2], scan.Name)
		fmt.Printf("match=%v similarity=%.3f (reference=%q)\n", m.Match, m.Similarity, os.Args[2])
	}
}
