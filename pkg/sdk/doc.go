// Package bconnected embeds the B-Connected expert marketplace in a Go program.
//
// The client builds the seeded expert directory in-process and exposes the
// marketplace listing, expert profiles and the findExperts tool without an
// HTTP round trip:
//
//	c, err := bconnected.New(bconnected.WithPageSize(6))
//	if err != nil { ... }
//	page, err := c.Experts().List(ctx, bconnected.Query{Text: "security"})
//	hits := c.FindExperts(ctx, bconnected.Criteria{Keywords: []string{"Cybersecurity"}})
package bconnected
