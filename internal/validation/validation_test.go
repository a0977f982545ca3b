package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmehdipour/order-service/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type personReq struct {
	Name  *string     `json:"name" validate:"required,max=5"`
	Email *string     `json:"email" validate:"omitempty,max=10"`
	Age   *int64      `json:"age"`
	Score *float64    `json:"score"`
	Born  *model.Date `json:"born"`
}

func (r *personReq) Fields() Fields {
	return Fields{
		"id":    nil,
		"name":  &r.Name,
		"email": Nullable(&r.Email),
		"age":   &r.Age,
		"score": &r.Score,
		"born":  &r.Born,
	}
}

func TestDecodeValid(t *testing.T) {
	var p personReq
	errs := Decode([]byte(`{"id": 3, "name":"Ann","age":30,"score":1.5,"born":"2000-01-02"}`), &p)
	require.Nil(t, errs)

	assert.Equal(t, "Ann", *p.Name)
	assert.Nil(t, p.Email)
	assert.Equal(t, int64(30), *p.Age)
	assert.Equal(t, 1.5, *p.Score)
	assert.Equal(t, "2000-01-02", p.Born.String())
}

func TestDecodeMissingRequired(t *testing.T) {
	var p personReq
	errs := Decode([]byte(`{"email":"a@x.com"}`), &p)
	assert.Equal(t, Errors{"name": {"Missing data for required field."}}, errs)
}

func TestDecodeNullOnlyForNullableFields(t *testing.T) {
	var p personReq
	errs := Decode([]byte(`{"name":null,"age":null,"email":null}`), &p)
	assert.Equal(t, Errors{
		"name": {"Field may not be null."},
		"age":  {"Field may not be null."},
	}, errs)

	p = personReq{}
	require.Nil(t, Decode([]byte(`{"name":"Ann","email":null}`), &p))
	assert.Nil(t, p.Email)
}

type patchReq struct {
	Presence
	Email *string `json:"email"`
}

func (r *patchReq) Fields() Fields {
	return Fields{"id": nil, "email": Nullable(&r.Email)}
}

func TestDecodeRecordsPresence(t *testing.T) {
	var p patchReq
	require.Nil(t, Decode([]byte(`{"id":1,"email":null}`), &p))
	assert.True(t, p.Has("email"))
	assert.True(t, p.Has("id"))

	p = patchReq{}
	require.Nil(t, Decode([]byte(`{}`), &p))
	assert.False(t, p.Has("email"))
}

func TestDecodeUnknownAndTypeErrors(t *testing.T) {
	var p personReq
	errs := Decode([]byte(`{"name":7,"age":"x","score":"y","born":"03/04/2000","colour":"red"}`), &p)
	assert.Equal(t, Errors{
		"name":   {"Not a valid string."},
		"age":    {"Not a valid integer."},
		"score":  {"Not a valid number."},
		"born":   {"Not a valid date."},
		"colour": {"Unknown field."},
	}, errs)
}

func TestDecodeFractionalInteger(t *testing.T) {
	var p personReq
	errs := Decode([]byte(`{"name":"Ann","age":1.5}`), &p)
	assert.Equal(t, Errors{"age": {"Not a valid integer."}}, errs)
}

func TestDecodeLength(t *testing.T) {
	var p personReq
	errs := Decode([]byte(`{"name":"Annabel","email":"a-very-long@x.com"}`), &p)
	assert.Equal(t, Errors{
		"name":  {"Longer than maximum length 5."},
		"email": {"Longer than maximum length 10."},
	}, errs)
}

func TestDecodeNonObject(t *testing.T) {
	for _, body := range []string{``, `[]`, `"x"`, `{bad json`} {
		var p personReq
		errs := Decode([]byte(body), &p)
		assert.Equal(t, Errors{SchemaKey: {"Invalid input type."}}, errs, body)
	}
}

func TestErrorsMessageIsStable(t *testing.T) {
	errs := Errors{"b": {"two"}, "a": {"one"}}
	assert.Equal(t, "validation failed: a: one; b: two", errs.Error())
}

func TestBind(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"x"}`))
	c := e.NewContext(req, httptest.NewRecorder())

	var p personReq
	err := Bind(c, &p)
	require.Error(t, err)

	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, errs, "name")
}
