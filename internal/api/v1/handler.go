package v1

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Behyna/transaction-ledger/internal/api/contract"
	"github.com/Behyna/transaction-ledger/internal/api/validator"
	"github.com/Behyna/transaction-ledger/internal/constants"
	"github.com/Behyna/transaction-ledger/internal/metrics"
	"github.com/Behyna/transaction-ledger/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	paramID        = "id"
	paramThreshold = "threshold"
	queryPageNum   = "pageNumber"
	queryPageSize  = "pageSize"

	transactionsPath = "/api/v1/Transactions"
)

type Paging struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Handler struct {
	logger             *zap.Logger
	transactionService service.TransactionService
	summaryService     service.TransactionSummaryService
	XValidator         validator.IXValidator
	metrics            *metrics.Metrics
	paging             Paging
}

func NewHandler(logger *zap.Logger, transactionService service.TransactionService,
	summaryService service.TransactionSummaryService, XValidator validator.IXValidator,
	metrics *metrics.Metrics, paging Paging) *Handler {
	return &Handler{
		logger:             logger,
		transactionService: transactionService,
		summaryService:     summaryService,
		XValidator:         XValidator,
		metrics:            metrics,
		paging:             paging,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) GetTransactions(c *fiber.Ctx) error {
	pageNumber, pageSize, invalid := h.pageParams(c)
	if invalid != nil {
		return h.reject(c, invalid)
	}

	transactions, err := h.transactionService.ListTransactions(c.UserContext(), service.ListTransactionsQuery{
		PageNumber: pageNumber,
		PageSize:   pageSize,
	})
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		return notFound(c, constants.ErrCodeTransactionsNotFound, constants.ErrMsgTransactionsNotFound)
	}

	return c.JSON(transactions)
}

func (h *Handler) GetTransactionByID(c *fiber.Ctx) error {
	id, invalid := h.transactionID(c)
	if invalid != nil {
		return h.reject(c, invalid)
	}

	transaction, err := h.transactionService.GetTransactionByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if transaction == nil {
		return notFound(c, constants.ErrCodeTransactionNotFound, fmt.Sprintf(constants.ErrMsgTransactionNotFound, id))
	}

	return c.JSON(transaction)
}

func (h *Handler) AddTransaction(c *fiber.Ctx) error {
	start := time.Now()

	var request TransactionRequest
	if responseError := h.validateBody(c, &request, "add_transaction"); responseError.Code != "" {
		return c.JSON(responseError)
	}

	id, err := h.transactionService.AddTransaction(c.UserContext(), toCommand(request))
	if err != nil {
		return err
	}

	h.logger.Info("Transaction added",
		zap.Int64("transaction_id", id),
		zap.String("user_id", request.UserID),
		zap.Duration("duration", time.Since(start)),
	)

	c.Location(fmt.Sprintf("%s/%d", transactionsPath, id))
	return c.Status(fiber.StatusCreated).JSON(id)
}

func (h *Handler) UpdateTransaction(c *fiber.Ctx) error {
	id, invalid := h.transactionID(c)
	if invalid != nil {
		return h.reject(c, invalid)
	}

	var request TransactionRequest
	if responseError := h.validateBody(c, &request, "update_transaction"); responseError.Code != "" {
		return c.JSON(responseError)
	}

	ok, err := h.transactionService.UpdateTransaction(c.UserContext(), id, toCommand(request))
	if err != nil {
		return err
	}

	if !ok {
		return notFound(c, constants.ErrCodeTransactionNotFound, fmt.Sprintf(constants.ErrMsgTransactionNotFound, id))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) DeleteTransaction(c *fiber.Ctx) error {
	id, invalid := h.transactionID(c)
	if invalid != nil {
		return h.reject(c, invalid)
	}

	ok, err := h.transactionService.DeleteTransaction(c.UserContext(), id)
	if err != nil {
		return err
	}

	if !ok {
		return notFound(c, constants.ErrCodeTransactionNotFound, fmt.Sprintf(constants.ErrMsgTransactionNotFound, id))
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetHighVolumeTransactions(c *fiber.Ctx) error {
	pageNumber, pageSize, invalid := h.pageParams(c)
	if invalid != nil {
		return h.reject(c, invalid)
	}

	threshold, err := decimal.NewFromString(c.Params(paramThreshold))
	if err != nil || !threshold.IsPositive() {
		return h.reject(c, &invalidParam{field: paramThreshold, code: constants.ErrCodeInvalidThresholdAmount,
			message: constants.ErrMsgInvalidThresholdAmount})
	}

	transactions, err := h.transactionService.ListHighVolumeTransactions(c.UserContext(),
		service.HighVolumeTransactionsQuery{
			ThresholdAmount: threshold,
			PageNumber:      pageNumber,
			PageSize:        pageSize,
		})
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		return notFound(c, constants.ErrCodeTransactionsNotFound, constants.ErrMsgTransactionsNotFound)
	}

	return c.JSON(transactions)
}

func (h *Handler) GetSummaryByTransactionType(c *fiber.Ctx) error {
	summary, err := h.summaryService.SummaryByTransactionType(c.UserContext())
	if err != nil {
		return err
	}

	if len(summary) == 0 {
		return notFound(c, constants.ErrCodeTransactionsNotFound, constants.ErrMsgTransactionsNotFound)
	}

	return c.JSON(summary)
}

func (h *Handler) GetSummaryByUser(c *fiber.Ctx) error {
	summary, err := h.summaryService.SummaryByUser(c.UserContext())
	if err != nil {
		return err
	}

	if len(summary) == 0 {
		return notFound(c, constants.ErrCodeTransactionsNotFound, constants.ErrMsgTransactionsNotFound)
	}

	return c.JSON(summary)
}

type invalidParam struct {
	field   string
	code    string
	message string
}

// pageParams reads pageNumber then pageSize; the first invalid one is reported.
func (h *Handler) pageParams(c *fiber.Ctx) (pageNumber, pageSize int, invalid *invalidParam) {
	pageNumber, ok := intQuery(c, queryPageNum, service.DefaultPageNumber)
	if !ok || pageNumber <= 0 {
		return 0, 0, &invalidParam{field: queryPageNum, code: constants.ErrCodeInvalidPageNumber,
			message: constants.ErrMsgInvalidPageNumber}
	}

	pageSize, ok = intQuery(c, queryPageSize, h.paging.DefaultPageSize)
	if !ok || pageSize <= 0 || pageSize > h.paging.MaxPageSize {
		return 0, 0, &invalidParam{field: queryPageSize, code: constants.ErrCodeInvalidPageSize,
			message: fmt.Sprintf(constants.ErrMsgInvalidPageSize, h.paging.MaxPageSize)}
	}

	return pageNumber, pageSize, nil
}

func (h *Handler) transactionID(c *fiber.Ctx) (int64, *invalidParam) {
	id, err := strconv.ParseInt(c.Params(paramID), 10, 64)
	if err != nil || id <= 0 {
		return 0, &invalidParam{field: paramID, code: constants.ErrCodeInvalidTransactionID,
			message: constants.ErrMsgInvalidTransactionID}
	}
	return id, nil
}

func (h *Handler) validateBody(c *fiber.Ctx, request *TransactionRequest, operation string) contract.Response {
	validationStart := time.Now()
	responseError := h.XValidator.Validator(request, c)
	h.metrics.RecordValidationDuration(operation, time.Since(validationStart))

	if responseError.Code != "" {
		h.logger.Warn("Request validation failed",
			zap.String("operation", operation),
			zap.String("code", responseError.Code),
			zap.String("message", responseError.Message),
		)
	}

	return responseError
}

func (h *Handler) reject(c *fiber.Ctx, invalid *invalidParam) error {
	h.metrics.RecordValidationError(invalid.field, invalid.code)
	h.logger.Warn("Invalid request parameter",
		zap.String("field", invalid.field),
		zap.String("path", c.Path()),
	)

	return c.Status(fiber.StatusBadRequest).JSON(contract.Response{Code: invalid.code, Message: invalid.message})
}

func notFound(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(contract.Response{Code: code, Message: message})
}

func intQuery(c *fiber.Ctx, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func toCommand(request TransactionRequest) service.TransactionCommand {
	return service.TransactionCommand{
		UserID:          request.UserID,
		TransactionType: request.TransactionType,
		Amount:          *request.TransactionAmount,
	}
}
