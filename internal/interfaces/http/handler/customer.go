package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcustomer "github.com/customerhub/backend/internal/application/customer"
	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/interfaces/http/dto"
	"github.com/customerhub/backend/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	create     *appcustomer.CreateCustomerHandler
	update     *appcustomer.UpdateCustomerHandler
	delete     *appcustomer.DeleteCustomerHandler
	getByID    *appcustomer.GetCustomerByIDHandler
	getByEmail *appcustomer.GetCustomerByEmailHandler
	list       *appcustomer.GetCustomersHandler
	now        func() time.Time
}

// NewCustomerHandler creates a CustomerHandler backed by repo.
// now drives both the application handlers and the age reported in responses; nil means time.Now.
func NewCustomerHandler(repo customer.Repository, now func() time.Time, opts ...appcustomer.Option) *CustomerHandler {
	if now == nil {
		now = time.Now
	}
	opts = append(opts, appcustomer.WithClock(now))
	return &CustomerHandler{
		create:     appcustomer.NewCreateCustomerHandler(repo, opts...),
		update:     appcustomer.NewUpdateCustomerHandler(repo, opts...),
		delete:     appcustomer.NewDeleteCustomerHandler(repo, opts...),
		getByID:    appcustomer.NewGetCustomerByIDHandler(repo, opts...),
		getByEmail: appcustomer.NewGetCustomerByEmailHandler(repo, opts...),
		list:       appcustomer.NewGetCustomersHandler(repo, opts...),
		now:        now,
	}
}

// Create handles POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	created, err := h.create.Handle(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, appcustomer.ToCustomerResponse(created, h.now()))
}

// List handles GET /customers?limit=&offset=
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "limit and offset must be integers")
		return
	}

	page, err := h.list.Handle(c.Request.Context(), appcustomer.GetCustomersQuery{
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := appcustomer.ToCustomerListResponse(page, h.now())
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Limit, resp.Offset)
}

// GetByID handles GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	found, err := h.getByID.Handle(c.Request.Context(), appcustomer.GetCustomerByIDQuery{ID: id})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appcustomer.ToCustomerResponse(found, h.now()))
}

// GetByEmail handles GET /customers/email/:email
func (h *CustomerHandler) GetByEmail(c *gin.Context) {
	found, err := h.getByEmail.Handle(c.Request.Context(), appcustomer.GetCustomerByEmailQuery{
		Email: c.Param("email"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appcustomer.ToCustomerResponse(found, h.now()))
}

// Update handles PUT and PATCH /customers/:id. Both apply a partial update.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(c, err)
		return
	}

	cmd, err := req.ToCommand(id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	updated, err := h.update.Handle(c.Request.Context(), cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, appcustomer.ToCustomerResponse(updated, h.now()))
}

// Delete handles DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.delete.Handle(c.Request.Context(), appcustomer.DeleteCustomerCommand{ID: id}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CustomerHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return uuid.Nil, false
	}
	return id, true
}
