// Package hydra is a typed client for REST APIs that speak Hydra/JSON-LD,
// the collection and item conventions used by API Platform.
//
// It has two halves. EncodeQuery turns ListOptions (pagination, sorting,
// filters and sparse field selection) into the query string API Platform
// understands:
//
//	q := hydra.EncodeQuery(hydra.ListOptions{
//	    PageIndex: 1,
//	    SortBy:    []hydra.Sort{{Field: "title"}},
//	    Filters:   []hydra.Filter{{Field: "author.name", Value: "Herbert"}},
//	})
//	q.Encode() // pagination=true&page=2&itemsPerPage=10&order%5Btitle%5D=ASC&author.name=Herbert
//
// The dispatcher sends requests with the right headers and body encoding per
// verb and folds every response into a Result:
//
//	client, err := hydra.New(hydra.Config{Entrypoint: "https://api.example.com"})
//	res, err := hydra.Get[hydra.Item[Book]](ctx, client, "/books/1")
//	if err != nil {
//	    // transport failure: nothing was received
//	}
//	if !res.Success {
//	    log.Println(res.Error.BestMessage())
//	}
//
// A non-2xx response is data, not an error: err is nil and Result.Error
// carries the decoded Hydra error document.
package hydra
