package http

import (
	"net/http"

	"github.com/jmehdipour/order-service/internal/db"
	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmehdipour/order-service/internal/repository"
	"github.com/jmehdipour/order-service/internal/validation"
	echo "github.com/labstack/echo/v4"
)

type customerCreateReq struct {
	Name    *string `json:"name" validate:"required,max=225"`
	Email   *string `json:"email" validate:"omitempty,max=225"`
	Address *string `json:"address" validate:"omitempty,max=225"`
}

func (r *customerCreateReq) Fields() validation.Fields {
	return validation.Fields{
		"id":      nil,
		"name":    &r.Name,
		"email":   validation.Nullable(&r.Email),
		"address": validation.Nullable(&r.Address),
	}
}

// customerUpdateReq: every field optional, only the ones sent are applied.
// An explicit null clears email or address.
type customerUpdateReq struct {
	validation.Presence

	Name    *string `json:"name" validate:"omitempty,max=225"`
	Email   *string `json:"email" validate:"omitempty,max=225"`
	Address *string `json:"address" validate:"omitempty,max=225"`
}

func (r *customerUpdateReq) Fields() validation.Fields {
	return validation.Fields{
		"id":      nil,
		"name":    &r.Name,
		"email":   validation.Nullable(&r.Email),
		"address": validation.Nullable(&r.Address),
	}
}

func (r *customerUpdateReq) apply(c *model.Customer) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Has("email") {
		c.Email = r.Email
	}
	if r.Has("address") {
		c.Address = r.Address
	}
}

func customerNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"Error": "Customer not found"})
}

func listCustomersHandler(repo repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		customers, err := repo.List(c.Request().Context())
		if err != nil {
			return dbError(c, "list customers failed", err)
		}
		return c.JSON(http.StatusOK, customers)
	}
}

func getCustomerHandler(repo repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		cu, err := repo.GetByID(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "get customer failed", err)
		}
		if cu == nil {
			return customerNotFound(c)
		}
		return c.JSON(http.StatusOK, cu)
	}
}

func createCustomerHandler(repo repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req customerCreateReq
		if ok, err := bind(c, &req); !ok {
			return err
		}

		cu := model.Customer{Name: *req.Name, Email: req.Email, Address: req.Address}
		if err := repo.Create(c.Request().Context(), &cu); err != nil {
			return dbError(c, "insert customer failed", err)
		}
		countMutation("customer", "create")

		return c.JSON(http.StatusCreated, map[string]any{
			"Message":  "New Customer added successfully",
			"customer": cu,
		})
	}
}

func updateCustomerHandler(repo repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		cu, err := repo.GetByID(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "get customer failed", err)
		}
		if cu == nil {
			return customerNotFound(c)
		}

		var req customerUpdateReq
		if ok, err := bind(c, &req); !ok {
			return err
		}
		req.apply(cu)

		if err := repo.Update(c.Request().Context(), *cu); err != nil {
			return dbError(c, "update customer failed", err)
		}
		countMutation("customer", "update")

		return c.JSON(http.StatusOK, map[string]any{
			"Message":  "Customer details have been updated!",
			"customer": cu,
		})
	}
}

func deleteCustomerHandler(repo repository.CustomersRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		deleted, err := repo.Delete(c.Request().Context(), id)
		if db.IsMySQLError(err, db.ErrNumRowIsReferenced) {
			return c.JSON(http.StatusConflict, map[string]string{"Error": "Customer has existing orders"})
		}
		if err != nil {
			return dbError(c, "delete customer failed", err)
		}
		if !deleted {
			return customerNotFound(c)
		}
		countMutation("customer", "delete")

		return c.JSON(http.StatusOK, map[string]string{"Message": "Customer removed Successfully!"})
	}
}
