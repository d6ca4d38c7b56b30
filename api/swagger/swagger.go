package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Penilaian Siswa API",
        "description": "Backend for student grading, bulk import, and score forecasting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Registration, login, and profile"},
        {"name": "Users", "description": "Operator account management"},
        {"name": "Siswa", "description": "Student roster management"},
        {"name": "Penilaian", "description": "Grade records, import, export"},
        {"name": "Dashboard", "description": "Aggregated statistics"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a new account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Duplicate email or invalid payload"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and issue a token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/profile": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current account profile",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/password": {
            "put": {
                "tags": ["Auth"],
                "summary": "Change the current account password",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List all accounts (operator)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get one account",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete an account (operator)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/siswa/create": {
            "post": {
                "tags": ["Siswa"],
                "summary": "Create a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSiswaRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Duplicate student or invalid payload"}
                }
            }
        },
        "/siswa/import": {
            "post": {
                "tags": ["Siswa"],
                "summary": "Bulk import students from xlsx",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}],
                "responses": {"200": {"description": "Import report"}}
            }
        },
        "/siswa/list": {
            "get": {
                "tags": ["Siswa"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "kelas", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "tahun", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/siswa/{id}": {
            "get": {
                "tags": ["Siswa"],
                "summary": "Get one student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Siswa"],
                "summary": "Update a student",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSiswaRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Siswa"],
                "summary": "Delete a student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/penilaian/create": {
            "post": {
                "tags": ["Penilaian"],
                "summary": "Record a semester's grades",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePenilaianRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Duplicate period or invalid payload"}
                }
            }
        },
        "/penilaian/import": {
            "post": {
                "tags": ["Penilaian"],
                "summary": "Bulk import grades from xlsx",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "required": true, "type": "file"}],
                "responses": {"200": {"description": "Import report"}}
            }
        },
        "/penilaian/template": {
            "get": {
                "tags": ["Penilaian"],
                "summary": "Download the grade import template",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "xlsx file"}}
            }
        },
        "/penilaian/list": {
            "get": {
                "tags": ["Penilaian"],
                "summary": "List grade records with statistics",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "siswa_id", "in": "query", "type": "string"},
                    {"name": "kelas", "in": "query", "type": "string"},
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "tahun", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/penilaian/export": {
            "get": {
                "tags": ["Penilaian"],
                "summary": "Export grade records with prediction columns",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "format", "in": "query", "type": "string", "description": "xlsx or csv"}],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/penilaian/export/simple": {
            "get": {
                "tags": ["Penilaian"],
                "summary": "Export grade records in the compact format",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "format", "in": "query", "type": "string", "description": "xlsx or csv"}],
                "responses": {"200": {"description": "File download"}}
            }
        },
        "/penilaian/siswa/{id}": {
            "get": {
                "tags": ["Penilaian"],
                "summary": "Grade history of one student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            }
        },
        "/penilaian/siswa/{id}/rapor": {
            "get": {
                "tags": ["Penilaian"],
                "summary": "Download one student's rapor as PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "PDF download"}}
            }
        },
        "/penilaian/{id}": {
            "get": {
                "tags": ["Penilaian"],
                "summary": "Get one grade record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Penilaian"],
                "summary": "Update a grade record",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePenilaianRequest"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Penilaian"],
                "summary": "Delete a grade record",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/statistics": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard statistics for the caller's scope",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "tahun", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/dashboard/walikelas/{id}": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard statistics for one wali kelas (operator)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "tahun", "in": "query", "type": "integer"},
                    {"name": "semester", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/dashboard/filters": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Distinct filter values for the caller's scope",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "enum": ["walikelas", "operator"]},
                "sekolah": {"type": "string"},
                "jurusan": {"type": "string"}
            },
            "required": ["name", "email", "password", "role"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["old_password", "new_password"]
        },
        "UpdateUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "enum": ["walikelas", "operator"]},
                "sekolah": {"type": "string"},
                "jurusan": {"type": "string"}
            }
        },
        "CreateSiswaRequest": {
            "type": "object",
            "properties": {
                "nama": {"type": "string"},
                "kelas": {"type": "string"},
                "tahun": {"type": "integer"},
                "semester": {"type": "string", "enum": ["ganjil", "genap"]},
                "walikelas_id": {"type": "string"}
            },
            "required": ["nama", "kelas", "tahun", "semester"]
        },
        "UpdateSiswaRequest": {
            "type": "object",
            "properties": {
                "nama": {"type": "string"},
                "kelas": {"type": "string"},
                "tahun": {"type": "integer"},
                "semester": {"type": "string", "enum": ["ganjil", "genap"]}
            }
        },
        "CreatePenilaianRequest": {
            "type": "object",
            "properties": {
                "siswa_id": {"type": "string"},
                "semester": {"type": "string", "enum": ["ganjil", "genap"]},
                "tahun": {"type": "integer"},
                "matematika": {"type": "number"},
                "ipa": {"type": "number"},
                "ips": {"type": "number"},
                "b_indonesia": {"type": "number"},
                "b_inggris": {"type": "number"},
                "kehadiran": {"type": "integer", "description": "Days attended, 0-365"}
            },
            "required": ["siswa_id", "semester", "tahun"]
        },
        "UpdatePenilaianRequest": {
            "type": "object",
            "properties": {
                "semester": {"type": "string", "enum": ["ganjil", "genap"]},
                "tahun": {"type": "integer"},
                "matematika": {"type": "number"},
                "ipa": {"type": "number"},
                "ips": {"type": "number"},
                "b_indonesia": {"type": "number"},
                "b_inggris": {"type": "number"},
                "kehadiran": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "totalItems": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "hasNext": {"type": "boolean"},
                "hasPrev": {"type": "boolean"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "status": {"type": "string"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "error": {"type": "string"}
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
