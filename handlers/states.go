package handlers

import (
	"circounter/config"
	"circounter/core"
	"circounter/models"
	"circounter/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListStates returns all states, or one page when ?page= is given
func ListStates(c *gin.Context) {
	if c.Query("page") == "" {
		states, err := service.GlobalServices.State.List()
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, readAll(states))
		return
	}

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		fail(c, http.StatusBadRequest, core.CodeInvalidRequest, "Invalid request", "page must be a positive integer")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		fail(c, http.StatusBadRequest, core.CodeInvalidRequest, "Invalid request", "page_size must be a positive integer")
		return
	}
	if limit := config.Settings.ListPageLimit; limit > 0 && pageSize > limit {
		pageSize = limit
	}

	states, total, err := service.GlobalServices.State.ListPage(page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"items":     readAll(states),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// CreateState creates a state from {"name": ..., "counter": null | int | {...}}
func CreateState(c *gin.Context) {
	var req models.StateCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, core.CodeInvalidRequest, "Invalid request", err.Error())
		return
	}

	state, err := service.GlobalServices.State.Create(req)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, state.Read())
}

// GetState returns one state by id or name
func GetState(c *gin.Context) {
	state, err := service.GlobalServices.State.Get(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, state.Read())
}

// SetStateCounter replaces the counter; the body is null, an integer or a counter object
func SetStateCounter(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, core.CodeInvalidRequest, "Invalid request", err.Error())
		return
	}
	if !json.Valid(body) {
		fail(c, http.StatusBadRequest, core.CodeInvalidRequest, "Invalid request", "body is not valid JSON")
		return
	}

	state, err := service.GlobalServices.State.SetCounter(c.Param("id"), body)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, state.Read())
}

// IncrementState advances the counter by {"by": n}, default 1
func IncrementState(c *gin.Context) {
	by, valid := bindStep(c)
	if !valid {
		return
	}
	state, err := service.GlobalServices.State.Increment(c.Param("id"), by)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, state.Read())
}

// DecrementState moves the counter back by {"by": n}, default 1
func DecrementState(c *gin.Context) {
	by, valid := bindStep(c)
	if !valid {
		return
	}
	state, err := service.GlobalServices.State.Decrement(c.Param("id"), by)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, state.Read())
}

// ResetState moves the counter back to the start of its window
func ResetState(c *gin.Context) {
	state, err := service.GlobalServices.State.Reset(c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, state.Read())
}

// DeleteState removes a state
func DeleteState(c *gin.Context) {
	if err := service.GlobalServices.State.Delete(c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"ok": true})
}

// bindStep reads an optional step body; an empty body means one step
func bindStep(c *gin.Context) (int64, bool) {
	var req models.StateStep
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, core.CodeInvalidRequest, "Invalid request", err.Error())
		return 0, false
	}
	return req.Steps(), true
}

func readAll(states []models.State) []models.StateRead {
	out := make([]models.StateRead, 0, len(states))
	for i := range states {
		out = append(out, states[i].Read())
	}
	return out
}
