package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	a := newTestAPI(t)
	cid := a.createCustomer(`{"name":"Ann"}`)

	rec := a.do(http.MethodPost, "/orders", fmt.Sprintf(`{"order_date":"2024-03-09","customer_id":%d}`, cid))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "New Order Placed!", body["Message"])
	order := body["order"].(map[string]any)
	assert.Equal(t, "2024-03-09", order["order_date"])
	assert.Equal(t, float64(cid), order["customer_id"])
}

func TestCreateOrderValidation(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/orders", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"order_date":["Missing data for required field."],
		"customer_id":["Missing data for required field."]
	}`, rec.Body.String())

	rec = a.do(http.MethodPost, "/orders", `{"order_date":"yesterday","customer_id":"one"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"order_date":["Not a valid date."],
		"customer_id":["Not a valid integer."]
	}`, rec.Body.String())
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/orders", `{"order_date":"2024-03-09","customer_id":77}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"Error":"Invalid customer id."}`, rec.Body.String())
}

func TestOrderCRUD(t *testing.T) {
	a := newTestAPI(t)
	cid := a.createCustomer(`{"name":"Ann"}`)
	oid := a.createOrder(cid)
	path := fmt.Sprintf("/orders/%d", oid)

	rec := a.do(http.MethodGet, path, "")
	assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"order_date":"2024-03-09","customer_id":%d}`, oid, cid), rec.Body.String())

	rec = a.do(http.MethodPut, path, `{"order_date":"2024-04-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/orders", "")
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"order_date":"2024-04-01","customer_id":%d}]`, oid, cid), rec.Body.String())

	rec = a.do(http.MethodPut, path, `{"customer_id":999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, "").Code)
}

func TestAddProductToOrder(t *testing.T) {
	a := newTestAPI(t)
	cid := a.createCustomer(`{"name":"Ann"}`)
	oid := a.createOrder(cid)
	pid := a.createProduct(`{"product_name":"Widget","price":9.5}`)

	rec := a.do(http.MethodPut, fmt.Sprintf("/orders/%d/add_product/%d", oid, pid), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Message":"Successfully added item to order."}`, rec.Body.String())

	rec = a.do(http.MethodGet, fmt.Sprintf("/orders/%d/products", oid), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"product_name":"Widget","price":9.5}]`, pid), rec.Body.String())
}

func TestAddProductTwiceDoesNotDuplicate(t *testing.T) {
	a := newTestAPI(t)
	oid := a.createOrder(a.createCustomer(`{"name":"Ann"}`))
	pid := a.createProduct(`{"product_name":"Widget","price":9.5}`)
	path := fmt.Sprintf("/orders/%d/add_product/%d", oid, pid)

	require.Equal(t, http.StatusOK, a.do(http.MethodPut, path, "").Code)
	rec := a.do(http.MethodPut, path, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"Message":"Item is already included in this order."}`, rec.Body.String())
	assert.Equal(t, 1, a.store.Links(oid, pid))
}

func TestAddProductInvalidIDs(t *testing.T) {
	a := newTestAPI(t)
	oid := a.createOrder(a.createCustomer(`{"name":"Ann"}`))

	rec := a.do(http.MethodPut, fmt.Sprintf("/orders/%d/add_product/999", oid), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"Message":"Invalid order id or product id."}`, rec.Body.String())
}

func TestRemoveProductFromOrder(t *testing.T) {
	a := newTestAPI(t)
	oid := a.createOrder(a.createCustomer(`{"name":"Ann"}`))
	pid := a.createProduct(`{"product_name":"Widget","price":9.5}`)
	remove := fmt.Sprintf("/orders/%d/remove_product/%d", oid, pid)

	rec := a.do(http.MethodDelete, remove, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"Message":"Item is not included in this order."}`, rec.Body.String())
	assert.Equal(t, 0, a.store.Links(oid, pid))

	require.Equal(t, http.StatusOK, a.do(http.MethodPut, fmt.Sprintf("/orders/%d/add_product/%d", oid, pid), "").Code)
	rec = a.do(http.MethodDelete, remove, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Message":"Successfully removed item from order."}`, rec.Body.String())

	rec = a.do(http.MethodGet, fmt.Sprintf("/orders/%d/products", oid), "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = a.do(http.MethodDelete, fmt.Sprintf("/orders/999/remove_product/%d", pid), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"Message":"Invalid order id or product id."}`, rec.Body.String())
}

func TestCustomerOrders(t *testing.T) {
	a := newTestAPI(t)
	cid := a.createCustomer(`{"name":"Ann"}`)

	rec := a.do(http.MethodGet, fmt.Sprintf("/orders/user/%d", cid), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	oid := a.createOrder(cid)
	rec = a.do(http.MethodGet, fmt.Sprintf("/orders/user/%d", cid), "")
	assert.JSONEq(t, fmt.Sprintf(`[{"id":%d,"order_date":"2024-03-09","customer_id":%d}]`, oid, cid), rec.Body.String())

	rec = a.do(http.MethodGet, "/orders/user/999", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid customer id."}`, rec.Body.String())
}

func TestOrderProductsUnknownOrder(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(http.MethodGet, "/orders/999/products", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid order id."}`, rec.Body.String())
}

func TestDeletingProductDropsItFromOrders(t *testing.T) {
	a := newTestAPI(t)
	oid := a.createOrder(a.createCustomer(`{"name":"Ann"}`))
	pid := a.createProduct(`{"product_name":"Widget","price":9.5}`)
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, fmt.Sprintf("/orders/%d/add_product/%d", oid, pid), "").Code)

	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, fmt.Sprintf("/products/%d", pid), "").Code)
	rec := a.do(http.MethodGet, fmt.Sprintf("/orders/%d/products", oid), "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateOrderNullIsRejected(t *testing.T) {
	a := newTestAPI(t)
	oid := a.createOrder(a.createCustomer(`{"name":"Ann"}`))

	rec := a.do(http.MethodPut, fmt.Sprintf("/orders/%d", oid), `{"order_date":null,"customer_id":null}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"order_date":["Field may not be null."],
		"customer_id":["Field may not be null."]
	}`, rec.Body.String())
}
