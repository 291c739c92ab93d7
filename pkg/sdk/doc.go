// Package termdeck is an embeddable Go client that searches the TermDat terminology
// database and turns the hits into flashcard decks, without running the HTTP server.
//
// # Quick start
//
//	client, _ := termdeck.New(ctx)
//	defer client.Close()
//
//	cols, _ := client.FindCollections(ctx, "IT", "banc")
//	sel := termdeck.Selection{Source: "IT", Targets: []string{"DE", "FR"}, Collections: []int{cols[0].ID}}
//
//	deck, _ := client.Deck(ctx, sel)
//	fmt.Println(deck.FileName, len(deck.Cards))
//
//	f, _ := os.Create(deck.FileName)
//	_, _ = client.WriteDeck(ctx, sel, f)
//
// # Caching
//
// Responses can be cached in Redis, keyed by request URL:
//
//	client, _ := termdeck.New(ctx,
//	    termdeck.WithRedis("localhost:6379", ""),
//	    termdeck.WithCacheTTL(time.Hour, 10*time.Minute),
//	)
package termdeck
