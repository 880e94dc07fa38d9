// Package hydratest provides an in-memory API Platform server for tests.
//
//	srv := hydratest.Start(
//	    hydratest.WithCollection("books", "title"),
//	    hydratest.WithResources("books", hydratest.Resource{"title": "Dune"}),
//	)
//	defer srv.Close()
//	client, _ := hydra.New(hydra.Config{Entrypoint: srv.URL()})
//
// Collections live at "/<name>" and items at "/<name>/<id>". Lists honor
// pagination, itemsPerPage, order[<field>], exact and list filters on
// dotted fields, and properties[] selection. PATCH requires
// application/merge-patch+json. Missing required properties answer 422 with
// a ConstraintViolationList. WithJWTSecret turns on bearer authentication.
package hydratest
