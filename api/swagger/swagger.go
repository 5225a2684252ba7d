package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "University Timetable API",
        "description": "Academic timetable generation and schedule management",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Catalog", "description": "Reference data: subjects, faculty, classrooms, departments, courses"},
        {"name": "Schedules", "description": "Committed schedule entries and conflict checks"},
        {"name": "Generation", "description": "Timetable generation runs"},
        {"name": "Workload", "description": "Faculty teaching load reports"},
        {"name": "Export", "description": "Timetable exports"}
    ],
    "paths": {
        "/subjects": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List subjects",
                "parameters": [
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "yearLevel", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get subject",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List faculty",
                "parameters": [
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get faculty member",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculty/{id}/workload": {
            "get": {
                "tags": ["Workload"],
                "summary": "Faculty workload report",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classrooms": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List classrooms",
                "parameters": [
                    {"name": "building", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "minCapacity", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classrooms/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get classroom",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List departments",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/departments/{id}/workload": {
            "get": {
                "tags": ["Workload"],
                "summary": "Department workload summary",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "semester", "in": "query", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List schedules",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "academicYear", "in": "query", "type": "string"},
                    {"name": "facultyId", "in": "query", "type": "string"},
                    {"name": "classroomId", "in": "query", "type": "string"},
                    {"name": "departmentId", "in": "query", "type": "string"},
                    {"name": "dayOfWeek", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Schedules"],
                "summary": "Create schedule",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Blocking conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{id}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Schedules"],
                "summary": "Update schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Blocking conflicts", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Archive schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/schedules/conflicts": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Check a proposed assignment for conflicts",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProposedAssignment"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": ["Generation"],
                "summary": "Generate a term timetable",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Term locked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Export a term timetable",
                "parameters": [
                    {"name": "semester", "in": "query", "required": true, "type": "string"},
                    {"name": "academicYear", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered file"}
                }
            }
        }
    },
    "definitions": {
        "CreateScheduleRequest": {
            "type": "object",
            "properties": {
                "subjectId": {"type": "string"},
                "facultyId": {"type": "string"},
                "classroomId": {"type": "string"},
                "semester": {"type": "string"},
                "academicYear": {"type": "string"},
                "dayOfWeek": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"}
            },
            "required": ["subjectId", "facultyId", "classroomId", "semester", "academicYear", "dayOfWeek", "startTime", "endTime"]
        },
        "UpdateScheduleRequest": {
            "type": "object",
            "properties": {
                "facultyId": {"type": "string"},
                "classroomId": {"type": "string"},
                "dayOfWeek": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "published", "archived"]}
            }
        },
        "ProposedAssignment": {
            "type": "object",
            "properties": {
                "scheduleId": {"type": "string"},
                "subjectId": {"type": "string"},
                "facultyId": {"type": "string"},
                "classroomId": {"type": "string"},
                "semester": {"type": "string"},
                "academicYear": {"type": "string"},
                "dayOfWeek": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"}
            },
            "required": ["subjectId", "facultyId", "classroomId", "semester", "academicYear", "dayOfWeek", "startTime", "endTime"]
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "string"},
                "academicYear": {"type": "string"},
                "departmentIds": {"type": "array", "items": {"type": "string"}},
                "courseIds": {"type": "array", "items": {"type": "string"}},
                "subjectIds": {"type": "array", "items": {"type": "string"}},
                "constraints": {"$ref": "#/definitions/GenerationConstraints"},
                "overwriteExisting": {"type": "boolean"}
            },
            "required": ["semester", "academicYear"]
        },
        "GenerationConstraints": {
            "type": "object",
            "properties": {
                "maxHoursPerWeek": {"type": "integer"},
                "minHoursPerWeek": {"type": "integer"},
                "maxPreparations": {"type": "integer"},
                "minimumCapacity": {"type": "integer"},
                "requiredFacilities": {"type": "array", "items": {"type": "string"}},
                "allowedDays": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Conflict": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["faculty", "classroom", "workload", "capacity"]},
                "severity": {"type": "string", "enum": ["error", "warning"]},
                "message": {"type": "string"},
                "schedule_ids": {"type": "array", "items": {"type": "string"}},
                "details": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
