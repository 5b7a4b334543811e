package http

import (
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/task"
	"github.com/cmlabs-hris/hr-admin-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TaskHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Shelve(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)
	Accept(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)

	GetMyTasks(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.TaskService
}

func NewTaskHandler(taskService task.TaskService) TaskHandler {
	return &taskHandlerImpl{taskService: taskService}
}

func (h *taskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req task.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.CreateTask(r.Context(), req)
	if err != nil {
		slog.Error("CreateTask service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Task created", result)
}

func taskFilterFromQuery(r *http.Request) task.TaskFilter {
	return task.TaskFilter{
		AssigneeID: queryString(r, "assignee_id"),
		Search:     queryString(r, "search"),
		Status:     queryString(r, "status"),
		Priority:   queryString(r, "priority"),
		Overdue:    queryBool(r, "overdue"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
}

func (h *taskHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := taskFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.ListTasks(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taskHandlerImpl) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	filter := taskFilterFromQuery(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.GetMyTasks(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taskHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.taskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taskHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req task.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.UpdateTask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task updated", result)
}

func (h *taskHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task deleted", nil)
}

// transition runs a status change that needs nothing but the task id.
func (h *taskHandlerImpl) transition(w http.ResponseWriter, r *http.Request, message string, fn func(id string) (task.TaskResponse, error)) {
	result, err := fn(chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

func (h *taskHandlerImpl) Shelve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Task shelved", func(id string) (task.TaskResponse, error) {
		return h.taskService.ShelveTask(r.Context(), id)
	})
}

func (h *taskHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Task reopened", func(id string) (task.TaskResponse, error) {
		return h.taskService.ReopenTask(r.Context(), id)
	})
}

func (h *taskHandlerImpl) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Task accepted", func(id string) (task.TaskResponse, error) {
		return h.taskService.AcceptTask(r.Context(), id)
	})
}

func (h *taskHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Task started", func(id string) (task.TaskResponse, error) {
		return h.taskService.StartTask(r.Context(), id)
	})
}

func (h *taskHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req task.RejectTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.RejectTask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task rejected", result)
}

// Complete accepts JSON, or multipart with repeated "photos" files and
// repeated "references" values.
func (h *taskHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	var req task.CompleteTaskRequest

	if isMultipart(r) {
		if err := decodeForm(r, maxTaskUpload, &req); err != nil {
			slog.Error("CompleteTask form error", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}
		if r.FormValue("data") == "" {
			req.Notes = formString(r, "notes")
			req.References = r.MultipartForm.Value["references"]
		}

		headers := r.MultipartForm.File["photos"]
		files := make([]multipart.File, 0, len(headers))
		defer func() {
			for _, f := range files {
				f.Close()
			}
		}()
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				slog.Error("Failed to open uploaded photo", "error", err)
				response.BadRequest(w, "Invalid file upload", nil)
				return
			}
			files = append(files, f)
		}
		req.Files = files
		req.FileHeaders = headers
	} else if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.CompleteTask(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task completed", result)
}
