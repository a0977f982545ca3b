package http

import (
	"errors"
	"net/http"

	"github.com/jmehdipour/order-service/internal/db"
	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmehdipour/order-service/internal/service/orders"
	"github.com/jmehdipour/order-service/internal/validation"
	echo "github.com/labstack/echo/v4"
)

type orderCreateReq struct {
	OrderDate  *model.Date `json:"order_date" validate:"required"`
	CustomerID *int64      `json:"customer_id" validate:"required"`
}

func (r *orderCreateReq) Fields() validation.Fields {
	return validation.Fields{"id": nil, "order_date": &r.OrderDate, "customer_id": &r.CustomerID}
}

type orderUpdateReq struct {
	OrderDate  *model.Date `json:"order_date"`
	CustomerID *int64      `json:"customer_id"`
}

func (r *orderUpdateReq) Fields() validation.Fields {
	return validation.Fields{"id": nil, "order_date": &r.OrderDate, "customer_id": &r.CustomerID}
}

func (r *orderUpdateReq) apply(o *model.Order) {
	if r.OrderDate != nil {
		o.OrderDate = *r.OrderDate
	}
	if r.CustomerID != nil {
		o.CustomerID = *r.CustomerID
	}
}

func orderNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"Error": "Order not found"})
}

func invalidCustomer(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"Error": "Invalid customer id."})
}

func listOrdersHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context())
		if err != nil {
			return dbError(c, "list orders failed", err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func getOrderHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		o, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "get order failed", err)
		}
		if o == nil {
			return orderNotFound(c)
		}
		return c.JSON(http.StatusOK, o)
	}
}

func createOrderHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req orderCreateReq
		if ok, err := bind(c, &req); !ok {
			return err
		}

		o := model.Order{OrderDate: *req.OrderDate, CustomerID: *req.CustomerID}
		err := svc.Create(c.Request().Context(), &o)
		if db.IsMySQLError(err, db.ErrNumNoReferencedRow) {
			return invalidCustomer(c)
		}
		if err != nil {
			return dbError(c, "insert order failed", err)
		}
		countMutation("order", "create")

		return c.JSON(http.StatusCreated, map[string]any{
			"Message": "New Order Placed!",
			"order":   o,
		})
	}
}

func updateOrderHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		o, err := svc.Get(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "get order failed", err)
		}
		if o == nil {
			return orderNotFound(c)
		}

		var req orderUpdateReq
		if ok, err := bind(c, &req); !ok {
			return err
		}
		req.apply(o)

		err = svc.Update(c.Request().Context(), *o)
		if db.IsMySQLError(err, db.ErrNumNoReferencedRow) {
			return invalidCustomer(c)
		}
		if err != nil {
			return dbError(c, "update order failed", err)
		}
		countMutation("order", "update")

		return c.JSON(http.StatusOK, map[string]any{
			"Message": "Order details have been updated!",
			"order":   o,
		})
	}
}

func deleteOrderHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		deleted, err := svc.Delete(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "delete order failed", err)
		}
		if !deleted {
			return orderNotFound(c)
		}
		countMutation("order", "delete")

		return c.JSON(http.StatusOK, map[string]string{"Message": "Order removed Successfully!"})
	}
}

func associationIDs(c echo.Context) (orderID, productID int64, ok bool) {
	orderID, okO := pathID(c, "id")
	productID, okP := pathID(c, "product_id")
	return orderID, productID, okO && okP
}

func addProductHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		orderID, productID, ok := associationIDs(c)
		if !ok {
			return notFound(c)
		}

		err := svc.AddProduct(c.Request().Context(), orderID, productID)
		switch {
		case errors.Is(err, orders.ErrInvalidIDs):
			return c.JSON(http.StatusBadRequest, map[string]string{"Message": "Invalid order id or product id."})
		case errors.Is(err, orders.ErrAlreadyIncluded):
			return c.JSON(http.StatusBadRequest, map[string]string{"Message": "Item is already included in this order."})
		case err != nil:
			return dbError(c, "add product to order failed", err)
		}
		countMutation("order", "add_product")

		return c.JSON(http.StatusOK, map[string]string{"Message": "Successfully added item to order."})
	}
}

func removeProductHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		orderID, productID, ok := associationIDs(c)
		if !ok {
			return notFound(c)
		}

		err := svc.RemoveProduct(c.Request().Context(), orderID, productID)
		switch {
		case errors.Is(err, orders.ErrInvalidIDs):
			return c.JSON(http.StatusBadRequest, map[string]string{"Message": "Invalid order id or product id."})
		case errors.Is(err, orders.ErrNotIncluded):
			return c.JSON(http.StatusBadRequest, map[string]string{"Message": "Item is not included in this order."})
		case err != nil:
			return dbError(c, "remove product from order failed", err)
		}
		countMutation("order", "remove_product")

		return c.JSON(http.StatusOK, map[string]string{"Message": "Successfully removed item from order."})
	}
}

func customerOrdersHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		customerID, ok := pathID(c, "customer_id")
		if !ok {
			return notFound(c)
		}
		list, err := svc.CustomerOrders(c.Request().Context(), customerID)
		if errors.Is(err, orders.ErrCustomerNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid customer id."})
		}
		if err != nil {
			return dbError(c, "list customer orders failed", err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

func orderProductsHandler(svc *orders.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		orderID, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		list, err := svc.OrderProducts(c.Request().Context(), orderID)
		if errors.Is(err, orders.ErrOrderNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid order id."})
		}
		if err != nil {
			return dbError(c, "list order products failed", err)
		}
		return c.JSON(http.StatusOK, list)
	}
}
