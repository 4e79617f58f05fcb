package httpserver

import "net/http"

// swaggerDoc is the API description served to the swagger UI. Maintained by
// hand; the surface is small enough that generation is not worth the build
// step.
const swaggerDoc = `{
  "swagger": "2.0",
  "info": {
    "title": "Electra API",
    "description": "Election session lifecycle and scoped notification fan-out.",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/notifications": {
      "get": {
        "summary": "List the caller's notification feed",
        "parameters": [
          {"name": "audience", "in": "query", "type": "string", "enum": ["user", "admin"]}
        ],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/notifications/{notification_id}/read": {
      "post": {
        "summary": "Mark one notification read",
        "parameters": [{"name": "notification_id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/notifications/{notification_id}/clear": {
      "post": {
        "summary": "Clear one notification",
        "parameters": [{"name": "notification_id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/notifications/mark-all-read": {
      "post": {"summary": "Mark all visible notifications read", "responses": {"200": {"description": "OK"}}}
    },
    "/notifications/clear-all": {
      "post": {"summary": "Clear all visible notifications", "responses": {"200": {"description": "OK"}}}
    },
    "/sessions": {
      "get": {"summary": "List sessions visible to the actor", "responses": {"200": {"description": "OK"}}},
      "post": {"summary": "Create a voting session", "responses": {"201": {"description": "Created"}}}
    },
    "/sessions/{session_id}/force-end": {
      "post": {
        "summary": "Close a session ahead of schedule",
        "parameters": [{"name": "session_id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}}
      }
    },
    "/sessions/{session_id}/publish-results": {
      "post": {
        "summary": "Publish session results",
        "parameters": [{"name": "session_id", "in": "path", "required": true, "type": "string"}],
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(swaggerDoc))
}
