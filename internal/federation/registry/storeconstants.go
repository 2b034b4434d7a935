/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package registry

import "github.com/asgardeo/thunderfed/internal/system/database/model"

var (
	// queryCreateIDP is the query to create a new federated IdP.
	queryCreateIDP = model.DBQuery{
		ID: "FIQ-IDP_MGT-01",
		Query: "INSERT INTO FEDERATED_IDP (ID, TENANT_ID, ENTITY_ID, PROTOCOL, ALIAS, UPN_SUFFIX, " +
			"JIT_ENABLED, MULTI_TENANT, PUBLIC_KEY, ATTRIBUTES) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
	}
	// queryGetIDPByEntityID is the query to get a federated IdP by tenant and entity ID.
	queryGetIDPByEntityID = model.DBQuery{
		ID: "FIQ-IDP_MGT-02",
		Query: "SELECT ID, ENTITY_ID, PROTOCOL, ALIAS, UPN_SUFFIX, JIT_ENABLED, MULTI_TENANT, PUBLIC_KEY, " +
			"ATTRIBUTES FROM FEDERATED_IDP WHERE TENANT_ID = $1 AND ENTITY_ID = $2",
	}
	// queryGetIDPList is the query to get the federated IdPs of a tenant.
	queryGetIDPList = model.DBQuery{
		ID: "FIQ-IDP_MGT-03",
		Query: "SELECT ID, ENTITY_ID, PROTOCOL, ALIAS, UPN_SUFFIX, JIT_ENABLED, MULTI_TENANT, PUBLIC_KEY, " +
			"ATTRIBUTES FROM FEDERATED_IDP WHERE TENANT_ID = $1 ORDER BY ENTITY_ID",
	}
	// queryUpdateIDPByID is the query to update a federated IdP by its row ID.
	queryUpdateIDPByID = model.DBQuery{
		ID: "FIQ-IDP_MGT-04",
		Query: "UPDATE FEDERATED_IDP SET PROTOCOL = $2, ALIAS = $3, UPN_SUFFIX = $4, JIT_ENABLED = $5, " +
			"MULTI_TENANT = $6, PUBLIC_KEY = $7, ATTRIBUTES = $8 WHERE ID = $1",
	}
	// queryDeleteIDPByID is the query to delete a federated IdP by its row ID.
	queryDeleteIDPByID = model.DBQuery{
		ID:    "FIQ-IDP_MGT-05",
		Query: "DELETE FROM FEDERATED_IDP WHERE ID = $1",
	}
	// queryGetIDPCertificates is the query to get the signing certificates of an IdP in chain order.
	queryGetIDPCertificates = model.DBQuery{
		ID:    "FIQ-IDP_MGT-06",
		Query: "SELECT CERT_PEM FROM FEDERATED_IDP_CERT WHERE IDP_ID = $1 ORDER BY POSITION",
	}
	// queryInsertIDPCertificate is the query to insert a signing certificate of an IdP.
	queryInsertIDPCertificate = model.DBQuery{
		ID:    "FIQ-IDP_MGT-07",
		Query: "INSERT INTO FEDERATED_IDP_CERT (IDP_ID, POSITION, CERT_PEM) VALUES ($1, $2, $3)",
	}
	// queryDeleteIDPCertificates is the query to delete the signing certificates of an IdP.
	queryDeleteIDPCertificates = model.DBQuery{
		ID:    "FIQ-IDP_MGT-08",
		Query: "DELETE FROM FEDERATED_IDP_CERT WHERE IDP_ID = $1",
	}
	// queryGetIDPRowID is the query to resolve the row ID of a federated IdP.
	queryGetIDPRowID = model.DBQuery{
		ID:    "FIQ-IDP_MGT-09",
		Query: "SELECT ID FROM FEDERATED_IDP WHERE TENANT_ID = $1 AND ENTITY_ID = $2",
	}
)
