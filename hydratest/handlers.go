package hydratest

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/hydrakit/validation"
)

const (
	mediaTypeJSONLD     = "application/ld+json"
	mediaTypeJSON       = "application/json"
	mediaTypeMergePatch = "application/merge-patch+json"
)

func (s *Server) routes() {
	s.engine.HandleMethodNotAllowed = true
	s.engine.GET("/", s.entrypoint)
	s.engine.GET("/:collection", s.list)
	s.engine.POST("/:collection", s.create)
	s.engine.GET("/:collection/:id", s.show)
	s.engine.PUT("/:collection/:id", s.replace)
	s.engine.PATCH("/:collection/:id", s.patch)
	s.engine.DELETE("/:collection/:id", s.remove)
	s.engine.NoRoute(func(c *gin.Context) { respondError(c, http.StatusNotFound, "Not Found") })
	s.engine.NoMethod(func(c *gin.Context) { respondError(c, http.StatusMethodNotAllowed, "Method Not Allowed") })
}

func (s *Server) entrypoint(c *gin.Context) {
	doc := gin.H{
		"@context": "/contexts/Entrypoint",
		"@id":      "/",
		"@type":    "Entrypoint",
	}
	for _, name := range s.store.names() {
		doc[name] = "/" + name
	}
	writeJSON(c, http.StatusOK, doc)
}

func (s *Server) list(c *gin.Context) {
	coll, ok := s.collection(c)
	if !ok {
		return
	}
	q, err := parseListQuery(c.Request.URL.RawQuery, s.pageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	members := q.apply(s.store.all(coll))
	total := len(members)
	page, last := q.window(members)

	out := make([]Resource, len(page))
	for i, m := range page {
		out[i] = project(m, q.properties)
	}
	doc := gin.H{
		"@context":         "/contexts/" + coll.typ,
		"@id":              "/" + coll.name,
		"@type":            "hydra:Collection",
		"hydra:member":     out,
		"hydra:totalItems": total,
	}
	if q.paginate {
		doc["hydra:view"] = s.view(c.Request.URL, q.page, last)
	}
	writeJSON(c, http.StatusOK, doc)
}

// view builds the hydra:PartialCollectionView links for page of last.
func (s *Server) view(u *url.URL, page, last int) gin.H {
	link := func(n int) string {
		q := u.Query()
		q.Set("page", strconv.Itoa(n))
		return u.Path + "?" + q.Encode()
	}
	v := gin.H{
		"@id":         link(page),
		"@type":       "hydra:PartialCollectionView",
		"hydra:first": link(1),
		"hydra:last":  link(last),
	}
	if page > 1 {
		v["hydra:previous"] = link(page - 1)
	}
	if page < last {
		v["hydra:next"] = link(page + 1)
	}
	return v
}

func (s *Server) show(c *gin.Context) {
	coll, id, ok := s.item(c)
	if !ok {
		return
	}
	res, found := s.store.get(coll, id)
	if !found {
		respondError(c, http.StatusNotFound, "Not Found")
		return
	}
	q, err := parseListQuery(c.Request.URL.RawQuery, s.pageSize)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, s.withContext(coll, project(res, q.properties)))
}

func (s *Server) create(c *gin.Context) {
	coll, ok := s.collection(c)
	if !ok {
		return
	}
	body, ok := s.decodeBody(c, mediaTypeJSONLD, mediaTypeJSON)
	if !ok {
		return
	}
	if !s.validate(c, coll, body) {
		return
	}
	writeJSON(c, http.StatusCreated, s.withContext(coll, s.store.insert(coll, body)))
}

func (s *Server) replace(c *gin.Context) {
	coll, id, ok := s.item(c)
	if !ok {
		return
	}
	body, ok := s.decodeBody(c, mediaTypeJSONLD, mediaTypeJSON)
	if !ok {
		return
	}
	if !s.validate(c, coll, body) {
		return
	}
	res, found := s.store.replace(coll, id, body)
	if !found {
		respondError(c, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(c, http.StatusOK, s.withContext(coll, res))
}

func (s *Server) patch(c *gin.Context) {
	coll, id, ok := s.item(c)
	if !ok {
		return
	}
	body, ok := s.decodeBody(c, mediaTypeMergePatch)
	if !ok {
		return
	}

	cur, found := s.store.get(coll, id)
	if !found {
		respondError(c, http.StatusNotFound, "Not Found")
		return
	}
	merged := mergePatch(cur, body)
	if !s.validate(c, coll, merged) {
		return
	}
	res, found := s.store.replace(coll, id, merged)
	if !found {
		respondError(c, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(c, http.StatusOK, s.withContext(coll, res))
}

func (s *Server) remove(c *gin.Context) {
	coll, id, ok := s.item(c)
	if !ok {
		return
	}
	if !s.store.remove(coll, id) {
		respondError(c, http.StatusNotFound, "Not Found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) collection(c *gin.Context) (*collection, bool) {
	coll, ok := s.store.lookup(c.Param("collection"))
	if !ok {
		respondError(c, http.StatusNotFound, "Not Found")
	}
	return coll, ok
}

func (s *Server) item(c *gin.Context) (*collection, int, bool) {
	coll, ok := s.collection(c)
	if !ok {
		return nil, 0, false
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Not Found")
		return nil, 0, false
	}
	return coll, id, true
}

func (s *Server) withContext(coll *collection, r Resource) Resource {
	r["@context"] = "/contexts/" + coll.typ
	return r
}

// decodeBody checks the Content-Type against accepted and decodes a JSON
// object body.
func (s *Server) decodeBody(c *gin.Context, accepted ...string) (Resource, bool) {
	mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || !slices.Contains(accepted, mt) {
		respondError(c, http.StatusUnsupportedMediaType,
			fmt.Sprintf("The content-type %q is not supported. Supported MIME types are %q.",
				c.GetHeader("Content-Type"), strings.Join(accepted, `", "`)))
		return nil, false
	}
	var body Resource
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil || body == nil {
		respondError(c, http.StatusBadRequest, "Syntax error")
		return nil, false
	}
	for _, k := range []string{"@id", "@type", "@context", "id"} {
		delete(body, k)
	}
	return body, true
}

// validate answers 422 with a ConstraintViolationList when a required
// property is missing or blank.
func (s *Server) validate(c *gin.Context, coll *collection, body Resource) bool {
	v := validation.New()
	for _, field := range coll.required {
		v.Required(field, body[field])
	}
	appErr := v.Validate()
	if appErr == nil {
		return true
	}

	fields := validation.FieldErrors(appErr)
	violations := make([]gin.H, len(fields))
	details := make([]string, len(fields))
	for i, f := range fields {
		violations[i] = gin.H{"propertyPath": f.Field, "message": f.Message, "code": f.Tag}
		details[i] = f.Field + ": " + f.Message
	}
	detail := strings.Join(details, "\n")
	writeJSON(c, http.StatusUnprocessableEntity, gin.H{
		"@context":          "/contexts/ConstraintViolationList",
		"@id":               "/validation_errors/" + fields[0].Tag,
		"@type":             "ConstraintViolationList",
		"status":            http.StatusUnprocessableEntity,
		"title":             "An error occurred",
		"detail":            detail,
		"hydra:title":       "An error occurred",
		"hydra:description": detail,
		"violations":        violations,
	})
	return false
}

// mergePatch applies an RFC 7386 JSON merge patch to target.
func mergePatch(target, patch Resource) Resource {
	if target == nil {
		target = Resource{}
	}
	for k, v := range patch {
		if v == nil {
			delete(target, k)
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			cur, _ := target[k].(map[string]any)
			target[k] = mergePatch(cur, sub)
			continue
		}
		target[k] = v
	}
	return target
}

func respondError(c *gin.Context, status int, detail string) {
	writeJSON(c, status, gin.H{
		"@context":          "/contexts/Error",
		"@id":               fmt.Sprintf("/errors/%d", status),
		"@type":             "hydra:Error",
		"status":            status,
		"title":             "An error occurred",
		"detail":            detail,
		"hydra:title":       "An error occurred",
		"hydra:description": detail,
		"type":              "/errors/" + strconv.Itoa(status),
	})
}

func writeJSON(c *gin.Context, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, mediaTypeJSONLD+"; charset=utf-8", data)
}

