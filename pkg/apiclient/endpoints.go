package apiclient

import (
	"strconv"
	"strings"
)

// Backend routes.
const (
	EndpointLogin    = "/auth/login"
	EndpointRegister = "/auth/register"
	EndpointLogout   = "/auth/logout"
	EndpointProfile  = "/auth/profile"

	EndpointProducts        = "/products"
	EndpointProductDetail   = "/products/{id}"
	EndpointSearch          = "/products/search"
	EndpointCategories      = "/products/categories"
	EndpointRecommendations = "/products/recommendations"

	EndpointCart       = "/cart"
	EndpointCartAdd    = "/cart/add"
	EndpointCartUpdate = "/cart/update"
	EndpointCartRemove = "/cart/remove"
	EndpointCheckout   = "/checkout"

	EndpointFavorites      = "/user/favorites"
	EndpointRecentlyViewed = "/user/recently-viewed"
	EndpointOrderHistory   = "/user/orders"
)

// ProductPath fills the {id} placeholder of EndpointProductDetail.
func ProductPath(id int64) string {
	return strings.Replace(EndpointProductDetail, "{id}", strconv.FormatInt(id, 10), 1)
}
