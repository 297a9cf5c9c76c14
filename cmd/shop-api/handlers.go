package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/tienda-ecom/internal/apperr"
	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/shop"
	"github.com/MikeMC777/tienda-ecom/internal/user"
)

// fail writes the status for err with an empty body.
func fail(c *gin.Context, err error) {
	c.AbortWithStatus(apperr.HTTPStatus(err))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// findUserByIDHandler godoc
// @Summary     Get user by id
// @Tags        user
// @Produce     json
// @Param       id  path     int  true  "User ID"
// @Success     200 {object} user.User
// @Failure     400
// @Failure     404
// @Router      /user/id/{id} [get]
func findUserByIDHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		u, err := svc.FindUserByID(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// findUserByUsernameHandler godoc
// @Summary     Get user by username
// @Tags        user
// @Produce     json
// @Param       username path     string true "Username"
// @Success     200      {object} user.User
// @Failure     404
// @Router      /user/{username} [get]
func findUserByUsernameHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.FindUserByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// createUserHandler godoc
// @Summary     Register a user
// @Description Password must have at least 7 characters and match confirmPassword.
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       body body     user.CreateUserRequest true "New user"
// @Success     200  {object} user.User
// @Failure     400
// @Router      /user/create [post]
func createUserHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in user.CreateUserRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		u, err := svc.CreateUser(c.Request.Context(), in)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// listItemsHandler godoc
// @Summary     List items
// @Tags        item
// @Produce     json
// @Success     200 {array} catalog.Item
// @Router      /item [get]
func listItemsHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListItems(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// getItemHandler godoc
// @Summary     Get item by id
// @Tags        item
// @Produce     json
// @Param       id  path     int true "Item ID"
// @Success     200 {object} catalog.Item
// @Failure     400
// @Failure     404
// @Router      /item/{id} [get]
func getItemHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		it, err := svc.GetItem(c.Request.Context(), id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// findItemsByNameHandler godoc
// @Summary     Find items by exact name
// @Tags        item
// @Produce     json
// @Param       name path    string true "Item name"
// @Success     200  {array} catalog.Item
// @Failure     404
// @Router      /item/name/{name} [get]
func findItemsByNameHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.FindItemsByName(c.Request.Context(), c.Param("name"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// addToCartHandler godoc
// @Summary     Add units of an item to a user's cart
// @Tags        cart
// @Accept      json
// @Produce     json
// @Param       body body     shop.ModifyCartRequest true "Cart change"
// @Success     200  {object} cart.Cart
// @Failure     400
// @Failure     404
// @Router      /cart/addToCart [post]
func addToCartHandler(svc *shop.Service) gin.HandlerFunc {
	return modifyCartHandler(svc.AddToCart)
}

// removeFromCartHandler godoc
// @Summary     Remove units of an item from a user's cart
// @Tags        cart
// @Accept      json
// @Produce     json
// @Param       body body     shop.ModifyCartRequest true "Cart change"
// @Success     200  {object} cart.Cart
// @Failure     400
// @Failure     404
// @Router      /cart/removeFromCart [post]
func removeFromCartHandler(svc *shop.Service) gin.HandlerFunc {
	return modifyCartHandler(svc.RemoveFromCart)
}

func modifyCartHandler(op func(context.Context, shop.ModifyCartRequest) (*cart.Cart, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in shop.ModifyCartRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		out, err := op(c.Request.Context(), in)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// submitOrderHandler godoc
// @Summary     Submit the user's cart as an order
// @Description The cart is snapshotted; it is not cleared.
// @Tags        order
// @Produce     json
// @Param       username path     string true "Username"
// @Success     200      {object} order.Order
// @Failure     400
// @Failure     404
// @Router      /order/submit/{username} [post]
func submitOrderHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.SubmitOrder(c.Request.Context(), c.Param("username"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// orderHistoryHandler godoc
// @Summary     List a user's orders
// @Tags        order
// @Produce     json
// @Param       username path    string true "Username"
// @Success     200      {array} order.Order
// @Failure     404
// @Router      /order/history/{username} [get]
func orderHistoryHandler(svc *shop.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.OrderHistory(c.Request.Context(), c.Param("username"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
