package handlers

import "github.com/gofiber/fiber/v3"

// ErrNotReady is returned while the dataset has not loaded
var ErrNotReady = fiber.NewError(fiber.StatusServiceUnavailable, "dataset not loaded")

// ErrInvalidCohort is returned for a cohort value outside the known vocabulary
var ErrInvalidCohort = fiber.NewError(fiber.StatusBadRequest, "invalid cohort, expected one of all, A, B, C, D, overlapping")
