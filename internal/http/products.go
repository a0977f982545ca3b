package http

import (
	"net/http"

	"github.com/jmehdipour/order-service/internal/model"
	"github.com/jmehdipour/order-service/internal/repository"
	"github.com/jmehdipour/order-service/internal/validation"
	echo "github.com/labstack/echo/v4"
)

type productCreateReq struct {
	ProductName *string  `json:"product_name" validate:"required,max=255"`
	Price       *float64 `json:"price" validate:"required"`
}

func (r *productCreateReq) Fields() validation.Fields {
	return validation.Fields{"id": nil, "product_name": &r.ProductName, "price": &r.Price}
}

type productUpdateReq struct {
	ProductName *string  `json:"product_name" validate:"omitempty,max=255"`
	Price       *float64 `json:"price"`
}

func (r *productUpdateReq) Fields() validation.Fields {
	return validation.Fields{"id": nil, "product_name": &r.ProductName, "price": &r.Price}
}

func (r *productUpdateReq) apply(p *model.Product) {
	if r.ProductName != nil {
		p.ProductName = *r.ProductName
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
}

func productNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"Error": "product not found"})
}

func listProductsHandler(repo repository.ProductsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		products, err := repo.List(c.Request().Context())
		if err != nil {
			return dbError(c, "list products failed", err)
		}
		return c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(repo repository.ProductsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		p, err := repo.GetByID(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "get product failed", err)
		}
		if p == nil {
			return productNotFound(c)
		}
		return c.JSON(http.StatusOK, p)
	}
}

func createProductHandler(repo repository.ProductsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req productCreateReq
		if ok, err := bind(c, &req); !ok {
			return err
		}

		p := model.Product{ProductName: *req.ProductName, Price: *req.Price}
		if err := repo.Create(c.Request().Context(), &p); err != nil {
			return dbError(c, "insert product failed", err)
		}
		countMutation("product", "create")

		return c.JSON(http.StatusCreated, map[string]any{
			"Message": "New Product added!",
			"product": p,
		})
	}
}

func updateProductHandler(repo repository.ProductsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		p, err := repo.GetByID(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "get product failed", err)
		}
		if p == nil {
			return productNotFound(c)
		}

		var req productUpdateReq
		if ok, err := bind(c, &req); !ok {
			return err
		}
		req.apply(p)

		if err := repo.Update(c.Request().Context(), *p); err != nil {
			return dbError(c, "update product failed", err)
		}
		countMutation("product", "update")

		return c.JSON(http.StatusOK, map[string]any{
			"Message": "product details have been updated!",
			"product": p,
		})
	}
}

// deleteProductHandler answers an unknown id with 404 unless alwaysOK keeps
// the legacy 200 + "Invalid product id" body.
func deleteProductHandler(repo repository.ProductsRepository, alwaysOK bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := pathID(c, "id")
		if !ok {
			return notFound(c)
		}
		deleted, err := repo.Delete(c.Request().Context(), id)
		if err != nil {
			return dbError(c, "delete product failed", err)
		}
		if !deleted {
			if alwaysOK {
				return c.JSON(http.StatusOK, map[string]string{"message": "Invalid product id"})
			}
			return productNotFound(c)
		}
		countMutation("product", "delete")

		return c.JSON(http.StatusOK, map[string]string{"message": "Product successfully deleted"})
	}
}
