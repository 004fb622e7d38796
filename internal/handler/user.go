package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/online-bookstore/internal/model"
	"github.com/iliyamo/online-bookstore/internal/repository"
)

// UserHandler serves profile and account endpoints.
type UserHandler struct {
	Users  *repository.UserRepo
	Orders *repository.OrderRepo
	Books  *repository.BookRepo
}

func NewUserHandler(users *repository.UserRepo, orders *repository.OrderRepo, books *repository.BookRepo) *UserHandler {
	if users == nil || orders == nil || books == nil {
		panic("nil repository passed to NewUserHandler")
	}
	return &UserHandler{Users: users, Orders: orders, Books: books}
}

// userView is the response shape for user records; it never carries
// the password hash.
type userView struct {
	ID        uint64 `json:"id,omitempty"`
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	MailID    string `json:"mailid"`
	UserType  string `json:"usertype"`
}

func toUserView(u model.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Address:   u.Address,
		Phone:     u.Phone,
		MailID:    u.MailID,
		UserType:  u.Role.String(),
	}
}

// Profile handles GET /v1/profile: the caller's order history plus
// the books they have listed. Admins see every order with the
// purchasing username attached.
func (h *UserHandler) Profile(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var (
		orders []repository.OrderHistoryRow
		err    error
	)
	if ident.Role.IsAdmin() {
		orders, err = h.Orders.HistoryAll(ctx)
	} else {
		orders, err = h.Orders.HistoryForUser(ctx, ident.ID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	added, err := h.Books.ListByOwner(ctx, ident.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"username":    ident.Username,
		"orders":      orders,
		"added_books": added,
	})
}

// Details handles GET /v1/users: all users for admins, the caller's
// own record otherwise.
func (h *UserHandler) Details(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if ident.Role.IsAdmin() {
		users, err := h.Users.ListAll(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		views := make([]userView, 0, len(users))
		for _, u := range users {
			views = append(views, toUserView(u))
		}
		return c.JSON(http.StatusOK, echo.Map{"user_data": views})
	}

	u, err := h.Users.GetByID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_data": toUserView(u)})
}

type updateUserReq struct {
	FirstName *string `json:"firstname"`
	LastName  *string `json:"lastname"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	MailID    *string `json:"mailid"`
	UserType  *string `json:"usertype"`
}

// Update handles PUT /v1/users/me. Callers may update their own
// contact fields; changing usertype requires the admin role.
func (h *UserHandler) Update(c echo.Context) error {
	ident, ok := identityOr401(c)
	if !ok {
		return nil
	}
	var req updateUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	upd := repository.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		MailID:    req.MailID,
	}
	if req.UserType != nil {
		if !ident.Role.IsAdmin() {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		role, err := model.ParseRole(*req.UserType)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid usertype"})
		}
		upd.Role = &role
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.Users.Update(ctx, ident.ID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated successfully"})
}
